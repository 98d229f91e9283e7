package errors

import "errors"

// ErrCatalogInvalid 参考数据（课程目录、专业要求、AP 表、规则表）无法构建
var ErrCatalogInvalid = errors.New("参考数据无效")

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")
