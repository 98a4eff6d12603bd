// Command tabprep 运行零售交易表的清洗与特征工程流水线：
// 读取 CSV，按默认（或 YAML/JSON 指定的）Stage 顺序处理，输出 CSV/JSON，可选写入 Redis。
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rushteam/tabprep/config"
	_ "github.com/rushteam/tabprep/config/builders"
	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/feature"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
	"github.com/rushteam/tabprep/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tabprep",
	Short:         "Clean and engineer features for retail transaction tables",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline on a CSV file",
	Long:  `The run command loads a CSV table, runs every configured stage in order and writes the cleaned table as CSV or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := LoadSettings(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(s.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPipeline(ctx, s, cmd.OutOrStdout())
	},
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List registered stage types and the default order",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "default order:")
		for i, t := range config.DefaultStageTypes {
			fmt.Fprintf(w, "  %2d. %s\n", i+1, t)
		}
		fmt.Fprintln(w, "registered:")
		for _, t := range config.SupportedTypes() {
			fmt.Fprintf(w, "  %s\n", t)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml/json/toml)")

	f := runCmd.Flags()
	f.StringP("input", "i", "", "input CSV file")
	f.StringP("output", "o", "", "output file, stdout when empty or -")
	f.String("format", FormatCSV, "output format: csv | json")
	f.StringP("pipeline", "p", "", "pipeline definition (yaml/json), default stage order when empty")
	f.String("dataset", "", "dataset name used in logs, defaults to the input file name")
	f.String("log-level", "info", "log level: debug | info | warn | error")
	f.String("redis-addr", "", "export rows to Redis when set")
	f.Int("redis-db", 0, "Redis database")
	f.String("redis-prefix", store.DefaultKeyPrefix, "Redis key prefix for row hashes")
	f.Int("redis-ttl", 0, "expire exported rows after this many seconds, 0 keeps them")

	rootCmd.AddCommand(runCmd, stagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("tabprep failed")
		os.Exit(1)
	}
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// runPipeline 执行一次完整运行：加载、处理、输出、可选导出。
func runPipeline(ctx context.Context, s *Settings, stdout io.Writer) error {
	if err := s.Validate(); err != nil {
		return err
	}

	p, err := loadPipeline(s.Pipeline)
	if err != nil {
		return err
	}
	p.WithLogger(log.Logger)

	df, err := frame.LoadCSV(s.Input)
	if err != nil {
		return err
	}
	dataset := s.Dataset
	if dataset == "" {
		dataset = strings.TrimSuffix(filepath.Base(s.Input), filepath.Ext(s.Input))
	}
	log.Info().Str("dataset", dataset).Int("rows", df.Nrow()).Int("cols", df.Ncol()).Msg("table loaded")

	rctx := core.NewRunContext(dataset)
	out, err := p.Run(ctx, rctx, df)
	if err != nil {
		return err
	}

	if err := writeOutput(s, out, stdout); err != nil {
		return err
	}
	logProfile(out)

	if s.Redis.Addr == "" {
		return nil
	}
	rs, err := store.NewRedisStore(s.Redis.Addr, s.Redis.DB)
	if err != nil {
		return fmt.Errorf("connect redis %s: %w", s.Redis.Addr, err)
	}
	defer rs.Close()
	n, err := store.SaveTable(ctx, rs, s.Redis.Prefix, out, s.Redis.TTL)
	if err != nil {
		return err
	}
	log.Info().Str("addr", s.Redis.Addr).Str("prefix", s.Redis.Prefix).Int("ttl", s.Redis.TTL).Int("rows", n).Msg("rows exported")
	return nil
}

// logProfile 在 debug 级别逐列输出统计摘要，仍有缺失值的列以 warn 级别输出。
func logProfile(df dataframe.DataFrame) {
	for _, st := range feature.Profile(df) {
		ev := log.Debug()
		if st.Missing > 0 {
			ev = log.Warn()
		}
		ev = ev.Str("column", st.Name).
			Str("type", string(st.Type)).
			Int("count", st.Count).
			Int("missing", st.Missing).
			Int("unique", st.Unique)
		if st.Numeric() {
			ev = ev.Float64("mean", st.Mean).
				Float64("std", st.Std).
				Float64("min", st.Min).
				Float64("p50", st.P50).
				Float64("p95", st.P95).
				Float64("max", st.Max)
		}
		ev.Msg("column profile")
	}
}

func loadPipeline(path string) (*pipeline.Pipeline, error) {
	cfg := config.DefaultPipelineConfig()
	if path != "" {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			cfg, err = pipeline.LoadFromJSON(path)
		default:
			cfg, err = pipeline.LoadFromYAML(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load pipeline %s: %w", path, err)
		}
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(config.DefaultFactory())
}

func writeOutput(s *Settings, df dataframe.DataFrame, stdout io.Writer) error {
	w := stdout
	if s.Output != "" && s.Output != "-" {
		f, err := os.Create(s.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.Output, err)
		}
		defer f.Close()
		w = f
	}
	if s.Format == FormatJSON {
		return frame.WriteJSON(w, df)
	}
	return frame.WriteCSV(w, df)
}
