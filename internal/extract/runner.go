package extract

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// ProgressInterval is how often download progress is reported
const ProgressInterval = 500 * time.Millisecond

// Result is the captured output of one yt-dlp invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes yt-dlp against target with opts
type Runner interface {
	Run(ctx context.Context, opts Options, target string) (*Result, error)
}

// YTDLPRunner runs the yt-dlp executable through go-ytdlp
type YTDLPRunner struct {
	executable string
}

// NewYTDLPRunner creates a runner. An empty executable resolves yt-dlp from PATH.
func NewYTDLPRunner(executable string) *YTDLPRunner {
	return &YTDLPRunner{executable: executable}
}

// Run builds the command from opts and executes it
func (r *YTDLPRunner) Run(ctx context.Context, opts Options, target string) (*Result, error) {
	cmd := r.command(opts)

	res, err := cmd.Run(ctx, target)
	if res == nil {
		return nil, err
	}
	return &Result{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, err
}

// command maps Options onto the go-ytdlp builder
func (r *YTDLPRunner) command(opts Options) *ytdlp.Command {
	cmd := ytdlp.New().NoWarnings()
	if r.executable != "" {
		cmd.SetExecutable(r.executable)
	}

	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.OutputTemplate != "" {
		cmd.Output(opts.OutputTemplate)
	}
	if opts.NoPlaylist {
		cmd.NoPlaylist()
	}
	if opts.FlatPlaylist {
		cmd.FlatPlaylist()
	}
	if opts.DumpJSON {
		cmd.DumpSingleJSON()
	}
	if opts.SkipDownload {
		cmd.SkipDownload()
	}
	if opts.MergeOutputFormat != "" {
		cmd.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if pp := opts.PostProcessor; pp != nil {
		cmd.ExtractAudio()
		if pp.Codec != "" {
			cmd.AudioFormat(pp.Codec)
		}
		if pp.Quality != "" {
			cmd.AudioQuality(pp.Quality)
		}
	}
	if opts.CookieFile != "" {
		cmd.Cookies(opts.CookieFile)
	}
	if opts.CookiesFromBrowser != "" {
		cmd.CookiesFromBrowser(opts.CookiesFromBrowser)
	}
	if opts.ForceOverwrites {
		cmd.ForceOverwrites()
	}
	if onProgress := opts.OnProgress; onProgress != nil {
		cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			p := Progress{
				DownloadedBytes: int(update.DownloadedBytes),
				TotalBytes:      int(update.TotalBytes),
			}
			if update.TotalBytes > 0 {
				p.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
			}
			if update.Info != nil && update.Info.Title != nil {
				p.Title = *update.Info.Title
			}
			onProgress(p)
		})
	}
	return cmd
}
