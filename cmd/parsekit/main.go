package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/parsekit/core/config"
	"github.com/dmitrymomot/parsekit/download"
	"github.com/dmitrymomot/parsekit/pkg/broadcast"
	"github.com/dmitrymomot/parsekit/pkg/webutil"
)

var (
	version = "dev"

	flags   appFlags
	outFlag string

	folderFlag      string
	subfolderFlag   string
	prefixFlag      string
	checkFolderFlag string
	anyExtFlag      bool
	skipCheckFlag   bool

	rootCmd = &cobra.Command{
		Use:           "parsekit",
		Short:         "Run batches of HTTP requests and downloads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	downloadCmd = &cobra.Command{
		Use:   "download [urls-file]",
		Short: "Download every URL listed in the file (or stdin) into a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			urls, err := readURLs(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}

			sink, err := a.Sink(ctx)
			if err != nil {
				return err
			}

			opts := []download.Option{download.WithSink(sink), download.WithLogger(a.log)}
			if folderFlag != "" {
				opts = append(opts, download.WithFolder(folderFlag))
			}
			if subfolderFlag != "" {
				opts = append(opts, download.WithSubfolders(broadcast.String(subfolderFlag)))
			}
			if prefixFlag != "" {
				opts = append(opts, download.WithFilenames(broadcast.String(prefixFlag), download.AsPrefix("-")))
			}
			if checkFolderFlag != "" {
				opts = append(opts, download.WithCheckFolder(checkFolderFlag, anyExtFlag))
			}
			if skipCheckFlag {
				opts = append(opts, download.WithSkipChecking())
			}

			d, err := download.NewFromConfig(a.cfg.Download, a.client, opts...)
			if err != nil {
				return err
			}
			stats, err := d.Run(ctx, urls)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded: %d, skipped: %d, failed: %d\n",
				stats.Downloaded, stats.Skipped, stats.Failed)
			return nil
		},
	}

	linksCmd = &cobra.Command{
		Use:   "links [urls-file]",
		Short: "Fetch every URL and save the links found on each page as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			urls, err := readURLs(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}

			links, err := collectLinks(ctx, a.client, urls)
			if err != nil {
				return err
			}
			return webutil.SaveJSON(outFlag, links)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of parsekit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parsekit version %s\n", version)
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.cookiesPath, "cookies", "", "JSON cookie export sent with every request")
	pf.BoolVar(&flags.rateLimit, "rate-limit", false, "Throttle requests per host (RATELIMIT_* settings)")
	pf.BoolVar(&flags.redis, "redis", false, "Share the rate limit through Redis (REDIS_URL)")

	df := downloadCmd.Flags()
	df.StringVarP(&folderFlag, "folder", "f", "", "Download folder (default DOWNLOAD_FOLDER)")
	df.StringVar(&subfolderFlag, "subfolder", "", "Subfolder for every file")
	df.StringVar(&prefixFlag, "prefix", "", "Prefix added to every file name")
	df.StringVar(&checkFolderFlag, "check-folder", "", "Additional folder searched for existing files")
	df.BoolVar(&anyExtFlag, "any-ext", false, "Match existing files in the check folder with any extension")
	df.BoolVar(&skipCheckFlag, "skip-checking", false, "Download files even when they exist")
	df.BoolVar(&flags.s3, "s3", false, "Store files in S3 (S3_* settings) instead of the local disk")

	linksCmd.Flags().StringVarP(&outFlag, "out", "o", "links.json", "Output JSON file")

	rootCmd.AddCommand(downloadCmd, linksCmd, versionCmd)
}

func setup(ctx context.Context) (*app, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(ctx, cfg, flags)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
