package etag

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Weak 根据响应内容生成弱 ETag
func Weak(body []byte) string {
	return `W/"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// Match If-None-Match 是否命中 tag，按 RFC 9110 做弱比较
func Match(header, tag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == want {
			return true
		}
	}
	return false
}
