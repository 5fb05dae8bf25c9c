package archive

import (
	"context"
	"fmt"
	"os"

	s3store "broodcore/internal/infra/archive/s3"
)

// Open selects an archive Store implementation using environment variables.
//
//	BROODCORE_ARCHIVE_DRIVER: fs|s3|memory (default fs)
//	BROODCORE_ARCHIVE_FS_ROOT: directory root when driver=fs (default ./archivedata)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("BROODCORE_ARCHIVE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("BROODCORE_ARCHIVE_FS_ROOT"))
	case DriverS3:
		return s3store.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
