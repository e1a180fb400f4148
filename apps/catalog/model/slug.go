package model

import "github.com/gosimple/slug"

// Slugify 由名称生成 slug：转小写、去掉重音、非字母数字换成 '-'
func Slugify(s string) string {
	return slug.Make(s)
}
