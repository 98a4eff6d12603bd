// Package store 提供 core.HashStore 的实现，用于把清洗后的特征表交给下游。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.HashStore = NewMemoryStore()
//	n, err := SaveTable(ctx, s, "tabprep:row:", df, 3600)
package store

import "github.com/rushteam/tabprep/core"

// ErrNotFound 与 core.ErrStoreNotFound 相同，便于包内直接引用。
var ErrNotFound = core.ErrStoreNotFound
