package api

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/cardforge/internal/errors"
	"github.com/youruser/cardforge/internal/util"
)

const (
	HeaderRequestID = "X-Request-ID"

	keyRequestID = "request_id"
	keyScratch   = "scratch_dir"
)

// requestID tags each request with a uuid, reusing a well-formed id sent by
// the client, and removes the request's scratch directory once the handler
// returns.
func requestID(workDir string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Set(keyScratch, filepath.Join(workDir, id))
		c.Header(HeaderRequestID, id)

		c.Next()

		if dir := c.GetString(keyScratch); c.GetBool(keyScratch + "_used") {
			if err := os.RemoveAll(dir); err != nil {
				logger.Warn("scratch directory not removed", "dir", dir, "err", err)
			}
		}
	}
}

// scratchDir creates and returns the directory for this request's files.
func scratchDir(c *gin.Context) (string, error) {
	dir := c.GetString(keyScratch)
	if dir == "" {
		return "", errors.New(errors.ErrCodeIO, "no scratch directory for request")
	}
	if err := util.EnsureDir(dir); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create scratch directory")
	}
	c.Set(keyScratch+"_used", true)
	return dir, nil
}
