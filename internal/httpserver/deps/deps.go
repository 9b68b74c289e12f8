package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/bookmarks"
	"github.com/nsommier/hoard/internal/logger"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	Service       *bookmarks.Service // bookmark ingestion service
	RedisClient   *redis.Client      // nil when running on the in-memory catalog
	ImportTrigger chan struct{}      // nil when bulk import is disabled
}
