package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tabprep/core"
)

// DefaultKeyPrefix 是行 Hash 的默认 key 前缀。
const DefaultKeyPrefix = "tabprep:row:"

// defaultWriteConcurrency 限制并发写入的行数
const defaultWriteConcurrency = 16

// SaveTable 把表的每一行写成一个 Hash：key 为 prefix+id，字段为列名，缺失单元格不写入。
// 同名 Hash 先被删除，旧运行残留的字段不会保留。ttl（秒）大于 0 时为每行设置过期时间。
// 返回写入的行数。表必须含有 id 列。
func SaveTable(ctx context.Context, s core.HashStore, prefix string, df dataframe.DataFrame, ttl ...int) (int, error) {
	if df.Err != nil {
		return 0, df.Err
	}
	names := df.Names()
	idIdx := -1
	for i, n := range names {
		if n == core.ColID {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return 0, core.NewMissingColumnError(core.ColID)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultWriteConcurrency)
	for r := 0; r < df.Nrow(); r++ {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id := df.Elem(r, idIdx)
			if id.IsNA() {
				return core.NewInvalidInputError(core.ColID, fmt.Sprintf("row %d has no id", r))
			}
			fields := make(map[string][]byte, len(names))
			for c, name := range names {
				e := df.Elem(r, c)
				if e.IsNA() {
					continue
				}
				fields[name] = []byte(formatCell(e))
			}
			key := prefix + id.String()
			if err := s.Delete(gctx, key); err != nil {
				return fmt.Errorf("%s: reset row %s: %w", s.Name(), id.String(), err)
			}
			if err := s.HMSet(gctx, key, fields, ttl...); err != nil {
				return fmt.Errorf("%s: write row %s: %w", s.Name(), id.String(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return df.Nrow(), nil
}

// formatCell 输出单元格文本；浮点数用最短表示而不是 gota 默认的 %f。
func formatCell(e series.Element) string {
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}
