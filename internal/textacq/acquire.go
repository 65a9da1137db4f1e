package textacq

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Code4Pete/trade-mvp/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 220
	MaxPages      int    // OCR page cap, default 3
	MinTextChars  int    // below this the OCR fallback is attempted, default 350
}

// Result is the outcome of one text-acquisition pass. Method is "empty" iff
// Text is empty.
type Result struct {
	Text       string
	Method     string // constants.MethodNative | constants.MethodOCR | constants.MethodEmpty
	Pages      int
	Duration   time.Duration
	Warnings   []string
	Confidence float64
}

// Acquirer turns raw PDF bytes into normalized text. It never returns an
// error: undecodable bytes and missing OCR binaries both degrade to whatever
// text is available, possibly none.
type Acquirer struct {
	cfg          Config
	runner       Runner
	logger       *slog.Logger
	ocrAvailable bool
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 220
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 350
	}

	// OCR is a capability flag, not a hard dependency.
	_, errPpm := exec.LookPath(cfg.Pdftoppm)
	_, errTess := exec.LookPath(cfg.Tesseract)
	ocrOK := errPpm == nil && errTess == nil

	a := &Acquirer{cfg: cfg, runner: execRunner{}, logger: logger, ocrAvailable: ocrOK}
	if !ocrOK {
		logger.Warn("ocr backend unavailable, fallback disabled",
			"pdftoppm", cfg.Pdftoppm, "tesseract", cfg.Tesseract)
	}
	return a
}

// OCRAvailable reports whether the OCR fallback path is enabled.
func (a *Acquirer) OCRAvailable() bool {
	return a.ocrAvailable
}

// Acquire extracts normalized text from raw PDF bytes. Native text first; if
// the result is shorter than MinTextChars and OCR is available, rasterizes up
// to MaxPages pages and keeps whichever text is strictly longer.
func (a *Acquirer) Acquire(ctx context.Context, raw []byte) Result {
	start := time.Now()

	path, cleanup, err := a.spool(raw)
	if err != nil {
		a.logger.Error("spooling document failed", "error", err)
		return Result{Method: constants.MethodEmpty, Duration: time.Since(start)}
	}
	defer cleanup()

	text, pages, warns := a.pdfToText(ctx, path)
	text = Normalize(text)
	method := constants.MethodNative

	if len(text) < a.cfg.MinTextChars && a.ocrAvailable {
		ocrText, ocrPages, ocrWarns := a.pdfToOCR(ctx, path)
		ocrText = Normalize(ocrText)
		warns = append(warns, ocrWarns...)
		if len(ocrText) > len(text) {
			text, pages, method = ocrText, ocrPages, constants.MethodOCR
		}
	}

	if text == "" {
		method = constants.MethodEmpty
	}

	res := Result{
		Text:       text,
		Method:     method,
		Pages:      pages,
		Duration:   time.Since(start),
		Warnings:   warns,
		Confidence: heuristicConfidence(text, method),
	}
	a.logger.Debug("text acquisition done",
		"method", res.Method, "chars", len(res.Text), "pages", res.Pages,
		"duration_ms", res.Duration.Milliseconds(), "warnings", len(res.Warnings))
	return res
}

// spool writes the raw bytes to a temp file for the external tools.
func (a *Acquirer) spool(raw []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "tradedoc-*.pdf")
	if err != nil {
		return "", nil, err
	}
	name := f.Name()
	cleanup := func() {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("removing temp file failed", "path", name, "error", err)
		}
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return name, cleanup, nil
}

func (a *Acquirer) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := a.runner.Run(ctx, a.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		// Undecodable bytes degrade to empty text, never propagate.
		return "", 0, []string{string(errb)}
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil
}

func (a *Acquirer) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string) {
	tmpDir, err := os.MkdirTemp("", "tradedoc-pp-*")
	if err != nil {
		return "", 0, []string{err.Error()}
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			a.logger.Warn("removing temp dir failed", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 220 -png <in.pdf> <tmp/page>
	_, errb, err := a.runner.Run(ctx, a.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", a.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) > a.cfg.MaxPages {
		matches = matches[:a.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w := a.tesseractOCR(ctx, img)
		warns = append(warns, w...)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), len(matches), warns
}

func (a *Acquirer) tesseractOCR(ctx context.Context, img string) (string, []string) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, img, "stdout", "-l", a.cfg.TesseractLang)
	if err != nil {
		return "", []string{string(errb)}
	}
	// minor cleanup of obvious line noise
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}
