package Owned_Buffer

import (
	"errors"
	"fmt"
)

// ErrKeyRequired 键不能为空错误
var ErrKeyRequired = errors.New("key is required")

// ErrValueRequired 值不能为空错误
var ErrValueRequired = errors.New("value is required")

// ErrKeyNotFound 键不存在错误
var ErrKeyNotFound = errors.New("key not found")

// ErrCacheClosed 缓存已关闭错误
var ErrCacheClosed = errors.New("cache closed")

// IndexError reports an indexed access outside [0, Len()).
// Out-of-range access is a programming error, not a runtime condition,
// so At and SetAt panic with *IndexError instead of returning it.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}
