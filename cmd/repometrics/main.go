package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-zajac/repometrics/internal/adapter/github"
	"github.com/m-zajac/repometrics/internal/api/http"
	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(".env").ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(envFiles ...string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repometrics",
		Short: "Compares activity of github repositories.",
		Long: `repometrics fetches metadata, issues, pull requests and releases of configured
github repositories, aggregates them into summary metrics and renders a markdown
comparison report. Configuration is read from REPOMETRICS_* environment variables.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	setup := func(cmd *cobra.Command) (Config, *logrus.Logger, error) {
		l := newLogger(cmd.ErrOrStderr(), cmd)
		conf, err := loadConfig(envFiles...)
		if err != nil {
			l.Errorf("couldn't parse config: %v", err)
			return Config{}, nil, err
		}
		return conf, l, nil
	}

	rootCmd.AddCommand(
		newRefreshCmd(setup),
		newReportCmd(setup),
		newServeCmd(setup),
	)

	return rootCmd
}

type setupFunc func(cmd *cobra.Command) (Config, *logrus.Logger, error)

func newLogger(out io.Writer, cmd *cobra.Command) *logrus.Logger {
	l := logrus.New()
	l.Out = out
	l.Level = logrus.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l.Level = logrus.DebugLevel
	}
	return l
}

func newRefreshCmd(setup setupFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetches repositories and materializes the report",
		Long: `Fetches every configured repository, stores its summary and renders the comparison report.
Repositories materialized within the freshness lag are read from storage unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, l, err := setup(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			env, err := newEnvironment(cmd.Context(), conf, newGithubClient(conf, l), l)
			if err != nil {
				l.Error(err)
				return err
			}
			defer env.Close()

			report, err := env.service.Refresh(cmd.Context(), force)
			if err != nil {
				l.Errorf("refresh failed: %v", err)
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), report)
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Fetch repositories even if stored summaries are fresh")

	return cmd
}

func newReportCmd(setup setupFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Prints latest materialized report",
		Long: `Prints latest materialized report. With --rebuild the report is first rendered again
from stored repository summaries, without calling github api.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, l, err := setup(cmd)
			if err != nil {
				return err
			}
			rebuild, _ := cmd.Flags().GetBool("rebuild")

			env, err := newEnvironment(cmd.Context(), conf, newGithubClient(conf, l), l)
			if err != nil {
				l.Error(err)
				return err
			}
			defer env.Close()

			var report string
			if rebuild {
				report, err = env.service.MaterializeReport(cmd.Context())
			} else {
				report, err = env.service.LatestReport(cmd.Context())
			}
			if err != nil {
				if app.IsAssetNotFoundError(err) {
					l.Errorf("%v, run refresh first", err)
				} else {
					l.Errorf("getting report: %v", err)
				}
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), report)
			return err
		},
	}
	cmd.Flags().Bool("rebuild", false, "Render report again from stored repository summaries")

	return cmd
}

func newServeCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs read-only http api",
		Long: `Runs http api serving latest materialized report (GET /report)
and live repository summaries (GET /repos/{owner}/{repo}).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, l, err := setup(cmd)
			if err != nil {
				return err
			}

			githubCachedClient, err := github.NewCachedClient(
				newGithubClient(conf, l),
				conf.GithubClientCacheSize,
				conf.GithubClientCacheTTL,
			)
			if err != nil {
				l.Errorf("couldn't create github client cache: %v", err)
				return err
			}

			env, err := newEnvironment(cmd.Context(), conf, githubCachedClient, l)
			if err != nil {
				l.Error(err)
				return err
			}
			defer env.Close()

			mux := http.NewMux(env.service, conf.HTTPHandlerTimeout, l.WithField("component", "mux"))
			server := http.NewServer(
				conf.HTTPServerAddress,
				conf.HTTPProfileServerAddress,
				http.NewLoggingMiddleware(l.WithField("component", "httpServer"))(mux),
				l.WithField("component", "httpServer"),
			)

			if err := server.Run(cmd.Context()); err != nil {
				l.Errorf("couldn't run http server: %v", err)
				return err
			}
			return nil
		},
	}
}
