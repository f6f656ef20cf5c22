// Command readalong-cli aligns recognizer output with Japanese text offline
// and prints alignment diagnostics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/kana"
	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/pipeline"
	"github.com/nadzzz/readalong/internal/recognizer"
	"github.com/nadzzz/readalong/internal/store"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

var version = "dev"

// CLI defines the command-line interface for readalong-cli.
type CLI struct {
	Config   string `name:"config" short:"c" help:"Path to config file" type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn"`

	Align      AlignCmd      `cmd:"" help:"Align recognized words with a text file"`
	Paragraphs ParagraphsCmd `cmd:"" help:"Print the paragraph spans of a text file"`
	Kana       KanaCmd       `cmd:"" help:"Locate kana words in a kana text"`
	Path       PathCmd       `cmd:"" help:"Show the alignment path between two kana strings"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// env is shared with every command's Run method.
type env struct {
	out     io.Writer
	cfgFile string
}

func (e *env) loadConfig() (*config.Config, error) {
	return config.Load(e.cfgFile)
}

// AlignCmd aligns words with a text.
type AlignCmd struct {
	Text   string   `arg:"" help:"Text file to align against" type:"existingfile"`
	Words  []string `help:"Recognized words, in spoken order" sep:","`
	Vosk   string   `help:"Recognizer output (JSON array of results)" type:"existingfile"`
	Audio  string   `help:"16 kHz mono PCM file to run through the configured recognizer" type:"existingfile"`
	Tokens string   `help:"JSON object mapping each text and word to its tokens, instead of a tokenizer backend" type:"existingfile"`
	Format string   `help:"Output format" enum:"json,text" default:"text"`
}

func (c *AlignCmd) Run(e *env) error {
	ctx := context.Background()
	text, err := os.ReadFile(c.Text)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}
	req := &message.Request{Text: string(text), Words: c.Words}
	if c.Vosk != "" {
		if err := readJSON(c.Vosk, &req.Results); err != nil {
			return err
		}
	}
	if c.Audio != "" {
		if req.Audio, err = os.ReadFile(c.Audio); err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
	}

	tok, rec, opts, closeAll, err := c.backends(e)
	if err != nil {
		return err
	}
	defer closeAll()

	progress := func(text string, index int) {
		slog.Info("recognizing", "result", index, "text", text)
	}
	res, err := pipeline.New(tok, rec, opts...).Handle(ctx, req, progress)
	if err != nil {
		return err
	}
	if res.Error != "" {
		return fmt.Errorf("%s", res.Error)
	}

	if c.Format == "json" {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printIntervals(e.out, req.Text, res.Words, res.Intervals)
}

// backends builds the tokenizer and recognizer for an align run.
func (c *AlignCmd) backends(e *env) (tokenizer.Tokenizer, recognizer.Recognizer, []pipeline.Option, func(), error) {
	if c.Tokens != "" && c.Audio == "" {
		var table map[string][]tokenizer.Token
		if err := readJSON(c.Tokens, &table); err != nil {
			return nil, nil, nil, nil, err
		}
		return tokenizer.NewStatic(table), nil, nil, func() {}, nil
	}

	cfg, err := e.loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	var closers []func() error
	var cache tokenizer.Cache
	if cfg.Tokenizer.Cache {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		closers = append(closers, db.Close)
		cache = db
	}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var tok tokenizer.Tokenizer
	if c.Tokens != "" {
		var table map[string][]tokenizer.Token
		if err := readJSON(c.Tokens, &table); err != nil {
			closeAll()
			return nil, nil, nil, nil, err
		}
		tok = tokenizer.NewStatic(table)
	} else if tok, err = pipeline.NewTokenizer(cfg.Tokenizer, cache); err != nil {
		closeAll()
		return nil, nil, nil, nil, err
	}
	closers = append(closers, tok.Close)

	rec, err := pipeline.NewRecognizer(cfg.Recognizer)
	if err != nil {
		closeAll()
		return nil, nil, nil, nil, err
	}
	if rec != nil {
		closers = append(closers, rec.Close)
	}
	return tok, rec, pipeline.Options(cfg.Pipeline), closeAll, nil
}

func printIntervals(w io.Writer, text string, words []string, intervals []*align.Interval) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, word := range words {
		var span, got string
		if iv := intervals[i]; iv != nil {
			span = iv.String()
			got = align.Words(text, []*align.Interval{iv})[0]
		} else {
			span = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, word, span, strings.ReplaceAll(got, "\n", `\n`))
	}
	return tw.Flush()
}

// ParagraphsCmd prints paragraph spans.
type ParagraphsCmd struct {
	Text string `arg:"" help:"Text file" type:"existingfile"`
}

func (c *ParagraphsCmd) Run(e *env) error {
	text, err := os.ReadFile(c.Text)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}
	paragraphs := align.FindParagraphIntervals(string(text))
	for i := range paragraphs {
		iv := &paragraphs[i]
		fmt.Fprintf(e.out, "%d\t%s\t%s\n", i, iv, align.Words(string(text), []*align.Interval{iv})[0])
	}
	return nil
}

// KanaCmd runs the forward kana search.
type KanaCmd struct {
	Text  string   `arg:"" help:"Kana text"`
	Words []string `arg:"" help:"Kana words, in order"`
}

func (c *KanaCmd) Run(e *env) error {
	intervals := align.AlignByKana(c.Words, c.Text)
	return printIntervals(e.out, c.Text, c.Words, intervals)
}

// PathCmd prints the alignment grid and path between two kana strings.
type PathCmd struct {
	First  string `arg:"" help:"First kana string (the text side)"`
	Second string `arg:"" help:"Second kana string (the recognized side)"`
	Grid   bool   `help:"Also print the score grid"`
	All    bool   `help:"Print a path for every best-scoring endpoint"`
}

func (c *PathCmd) Run(e *env) error {
	t1, err := kana.Encode(kana.Normalize(c.First))
	if err != nil {
		return fmt.Errorf("first string: %w", err)
	}
	t2, err := kana.Encode(kana.Normalize(c.Second))
	if err != nil {
		return fmt.Errorf("second string: %w", err)
	}
	g, path, err := align.AlignSymbols(t1, t2)
	if err != nil {
		return err
	}
	if c.Grid {
		if err := align.RenderGrid(e.out, g, g.Width(), g.Height()); err != nil {
			return err
		}
		fmt.Fprintln(e.out)
	}
	if c.All {
		return align.RenderPaths(e.out, g)
	}
	fmt.Fprintf(e.out, "score %d, endpoint %s\n", g.Max(), g.Best())
	return align.RenderPath(e.out, path, t1, t2)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.out, "readalong-cli %s\n", version)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("readalong-cli"),
		kong.Description("Align speech recognizer output with Japanese text"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	slog.SetDefault(config.NewLogger(config.LoggingConfig{Level: cli.LogLevel, Format: "text"}, os.Stderr))
	return ctx.Run(&env{out: out, cfgFile: cli.Config})
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "readalong-cli:", err)
		os.Exit(1)
	}
}
