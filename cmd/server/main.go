package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/weibaohui/piepress/config"
	"github.com/weibaohui/piepress/internal/app"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/pkg/database"
	"github.com/weibaohui/piepress/internal/pkg/jwtauth"
	"k8s.io/klog/v2"
)

var configPath string

func main() {
	// 初始化 klog，-v 等参数挂到 cobra 上
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	defer klog.Flush()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "piepress",
	Short:         "PiePress content server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("CONFIG_PATH", configPath)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		if a.Config.Auth.JWTSecret == config.Default().Auth.JWTSecret {
			klog.Warning("JWT_SECRET is not set, admin tokens use the built-in default secret")
		}
		klog.Infof("Server starting on port %s...", a.Config.Server.Port)
		return a.Engine.Run(":" + a.Config.Server.Port)
	},
}

var seedUser string

// seedCmd 初始数据不随启动写入，只能显式执行
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the ten initial pies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		principal := domain.NewPrincipal(seedUser, domain.RoleAdministrator)
		if err := a.Pies.SeedInitialPies(cmd.Context(), a.Posts, principal); err != nil {
			return fmt.Errorf("seed pies: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seeded initial pies")
		return nil
	},
}

var (
	tokenUser string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the admin screens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()
		token, err := jwtauth.IssueToken(cfg.Auth.JWTSecret, tokenUser, tokenRole, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")

	seedCmd.Flags().StringVar(&seedUser, "user", "admin", "author of the seeded pies")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "admin", "user name")
	tokenCmd.Flags().StringVar(&tokenRole, "role", domain.RoleAdministrator, "comma separated roles")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func setup(ctx context.Context) (*app.App, error) {
	cfg := config.GetConfig()

	if cfg.Database.Type != "mysql" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return app.New(ctx, cfg, db)
}
