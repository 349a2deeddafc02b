package middleware

import (
	"github.com/gin-gonic/gin"

	reqidmiddleware "github.com/noah-isme/tuition-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

const (
	cacheHitKey  = "cache_hit"
	requestIDKey = "request_id"
)

// WithResponseMeta seeds the response metadata with the request ID. It must run
// after the request ID middleware.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]interface{}{}
		if id := reqidmiddleware.Value(c); id != "" {
			meta[requestIDKey] = id
		}
		c.Set(response.MetaKey, meta)
		c.Next()
	}
}

// SetCacheHit reports whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// ExtractMeta returns the metadata collected so far, or nil.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(response.MetaKey); ok {
		if meta, ok := v.(map[string]interface{}); ok {
			return meta
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := map[string]interface{}{}
	c.Set(response.MetaKey, meta)
	return meta
}
