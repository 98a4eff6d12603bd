package frame

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
)

// NaNValues 是读取 CSV 时视为缺失的字面量。
var NaNValues = []string{"", "NA", "NaN", "nan", "null", "N/A", "<NA>"}

// ReadCSV 读取带表头的 CSV，自动推断列类型。空表头列由 gota 命名为 "X0"。
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NaNValues),
	)
	if df.Err != nil {
		return df, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// LoadRecords 从内存中的记录构建表（首行为表头），推断规则与 ReadCSV 相同。
func LoadRecords(records [][]string) (dataframe.DataFrame, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NaNValues),
	)
	if df.Err != nil {
		return df, fmt.Errorf("load records: %w", df.Err)
	}
	return df, nil
}

// LoadCSV 从文件读取 CSV。
func LoadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV 以 CSV 输出整张表（含表头）。
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	return df.WriteCSV(w)
}

// WriteJSON 以 JSON 数组输出整张表，每行一个对象。缺失值与非有限浮点数输出为 null。
func WriteJSON(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	rows := df.Maps()
	for _, row := range rows {
		for k, v := range row {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				row[k] = nil
			}
		}
	}
	return json.NewEncoder(w).Encode(rows)
}
