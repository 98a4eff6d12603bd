package core

import "context"

// Store 是存储的领域接口，清洗后的特征表通过它交给下游（训练/在线特征服务）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// HashStore 是 Store 的扩展接口：按行写入特征时每行对应一个 Hash。
type HashStore interface {
	Store

	// HMSet 批量写入同一个 Hash 的多个字段；ttl（秒）大于 0 时为整个 Hash 设置过期时间
	HMSet(ctx context.Context, key string, fields map[string][]byte, ttl ...int) error

	// HGetAll 读取整个 Hash；key 不存在或已过期时返回 ErrStoreNotFound
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// ErrStoreNotFound 表示 key 不存在（使用统一的 DomainError）
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
