package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/deck"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

const (
	defaultQRSize = 400
	maxQRSize     = 2048
	// maxGridCells bounds one grid request, uploads or cells, to a full
	// deck sheet so a client cannot ask for an unbounded canvas.
	maxGridCells = 70
)

// writeError answers with the error code and the request id so a client can
// quote both in a bug report.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeDecodeFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		status = http.StatusUnsupportedMediaType
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      errors.UserMessage(err),
		"code":       errors.GetCode(err),
		"request_id": c.GetString(keyRequestID),
	})
}

func badRequest(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// filterHandler filters an uploaded card sheet ("sheet") with the options
// in the "filter" form field.
func filterHandler(c *gin.Context) {
	fh, err := c.FormFile("sheet")
	if err != nil {
		writeError(c, badRequest("missing card sheet upload"))
		return
	}
	var opt cards.FilterOptions
	if raw := c.PostForm("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opt); err != nil {
			writeError(c, badRequest("filter: %v", err))
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, errors.Wrap(errors.ErrCodeIO, err, "open upload"))
		return
	}
	defer f.Close()
	all, err := cards.ParseRecords(f)
	if err != nil {
		writeError(c, err)
		return
	}
	out := cards.Filter(all, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

type documentRequest struct {
	Template json.RawMessage `json:"template" binding:"required"`
	Record   cards.Record    `json:"record" binding:"required"`
}

// documentHandler merges one record into a template and returns the card
// document with the template fields the mapping could not find.
func (s *Server) documentHandler(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("%v", err))
		return
	}
	tmpl, err := document.Parse(req.Template)
	if err != nil {
		writeError(c, errors.Wrap(errors.ErrCodeDecodeFailed, err, "template: %v", err))
		return
	}
	doc, missing := cards.Build(tmpl, req.Record, s.cfg.BuildOptions())
	data, err := doc.Marshal()
	if err != nil {
		writeError(c, err)
		return
	}
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"name":     cards.FileName(req.Record, 0),
		"document": json.RawMessage(data),
		"missing":  missing,
	})
}

type gridRequest struct {
	URLs []string `json:"urls"`
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
}

// gridHandler composes uploaded images ("images") or images fetched from
// "urls" into one PNG grid. Without rows and cols the grid is sized
// automatically.
func (s *Server) gridHandler(c *gin.Context) {
	var (
		imgs []image.Image
		req  gridRequest
	)
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, badRequest("%v", err))
			return
		}
		if len(req.URLs) > maxGridCells {
			writeError(c, badRequest("at most %d urls per grid", maxGridCells))
			return
		}
		for _, u := range req.URLs {
			if !util.IsURL(u) {
				writeError(c, badRequest("not an http(s) url: %s", u))
				return
			}
			img, err := imagepkg.DownloadImage(c.Request.Context(), u)
			if err != nil {
				writeError(c, err)
				return
			}
			imgs = append(imgs, img)
		}
	} else {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, badRequest("expected multipart form or JSON"))
			return
		}
		for _, fh := range form.File["images"] {
			img, err := decodeUpload(fh)
			if err != nil {
				writeError(c, err)
				return
			}
			imgs = append(imgs, img)
		}
		req.Rows, _ = strconv.Atoi(c.PostForm("rows"))
		req.Cols, _ = strconv.Atoi(c.PostForm("cols"))
	}
	if len(imgs) == 0 {
		writeError(c, badRequest("no images"))
		return
	}
	if len(imgs) > maxGridCells {
		writeError(c, badRequest("at most %d images per grid", maxGridCells))
		return
	}

	spec := s.cfg.GridSpec()
	spec.Rows, spec.Cols = req.Rows, req.Cols
	if spec.Rows <= 0 || spec.Cols <= 0 {
		spec.Rows, spec.Cols = imagepkg.AutoGrid(len(imgs), s.cfg.Pagination.Cols)
	}
	if spec.Rows > maxGridCells || spec.Cols > maxGridCells || spec.Rows*spec.Cols > maxGridCells {
		writeError(c, badRequest("grid %dx%d exceeds %d cells", spec.Rows, spec.Cols, maxGridCells))
		return
	}
	canvas, err := imagepkg.ComposeGrid(imgs, spec)
	if err != nil {
		writeError(c, err)
		return
	}
	writePNG(c, imagepkg.ApplyResolution(canvas, s.cfg.Target(), s.cfg.Presets()))
}

// overlayHandler places "art" into "base". The optional "bounds" form field
// holds the Art bounds as JSON; without it the art is centred.
func (s *Server) overlayHandler(c *gin.Context) {
	baseFH, err := c.FormFile("base")
	if err != nil {
		writeError(c, badRequest("missing base upload"))
		return
	}
	artFH, err := c.FormFile("art")
	if err != nil {
		writeError(c, badRequest("missing art upload"))
		return
	}
	base, err := decodeUpload(baseFH)
	if err != nil {
		writeError(c, err)
		return
	}
	art, err := decodeUpload(artFH)
	if err != nil {
		writeError(c, err)
		return
	}

	raw := c.PostForm("bounds")
	if raw == "" {
		writePNG(c, imagepkg.OverlayCentered(base, art, s.cfg.Overlay.MarginRatio))
		return
	}
	var b document.Bounds
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		writeError(c, badRequest("bounds: %v", err))
		return
	}
	if b.Empty() {
		writeError(c, badRequest("bounds have no area"))
		return
	}
	writePNG(c, imagepkg.Overlay(base, art, b))
}

// qrHandler returns a PNG of a QR for the "text" query param.
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		writeError(c, badRequest("missing text"))
		return
	}
	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxQRSize {
			writeError(c, badRequest("size must be between 1 and %d", maxQRSize))
			return
		}
		size = n
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

type sheetFile struct {
	File string `json:"file"`
	PNG  string `json:"png"` // base64
}

// sheetsHandler paginates the uploaded card images ("images") into deck
// sheets and returns the manifest with every sheet inline.
func (s *Server) sheetsHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		writeError(c, badRequest("no images"))
		return
	}
	dir, err := scratchDir(c)
	if err != nil {
		writeError(c, err)
		return
	}

	paths, err := saveUploads(c, form.File["images"], filepath.Join(dir, "cards"))
	if err != nil {
		writeError(c, err)
		return
	}
	opts := s.cfg.SheetOptions()
	opts.Ext = "png"
	opts.Logger = s.logger
	outDir := filepath.Join(dir, "sheets")
	report := imagepkg.BuildSheets(paths, outDir, opts)

	d := deck.FromSheets(c.DefaultPostForm("name", "deck"), paths, imagepkg.Paginate(len(paths), opts.Pagination), opts.Ext)
	var sheets []sheetFile
	for _, out := range report.Outputs {
		data, err := os.ReadFile(out)
		if err != nil {
			writeError(c, errors.Wrap(errors.ErrCodeIO, err, "read %s", filepath.Base(out)))
			return
		}
		sheets = append(sheets, sheetFile{File: filepath.Base(out), PNG: base64.StdEncoding.EncodeToString(data)})
	}
	c.JSON(http.StatusOK, gin.H{
		"deck":     d,
		"sheets":   sheets,
		"summary":  report.Summary(),
		"failures": report.FailureMessages(),
	})
}

// saveUploads writes files into dir in upload order, keeping each card's
// base name so the deck manifest names cards the way the client did.
func saveUploads(c *gin.Context, files []*multipart.FileHeader, dir string) ([]string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}
	used := map[string]int{}
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		ext := filepath.Ext(fh.Filename)
		if !imagepkg.IsImageFile(fh.Filename) {
			return nil, errors.New(errors.ErrCodeUnsupported, "not an image: %s", fh.Filename)
		}
		name := util.SanitizeName(util.Stem(fh.Filename))
		if name == "" {
			name = "card"
		}
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		p := filepath.Join(dir, name+ext)
		if err := c.SaveUploadedFile(fh, p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "save %s", fh.Filename)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func decodeUpload(fh *multipart.FileHeader) (image.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", fh.Filename)
	}
	return imagepkg.Decode(data)
}

func writePNG(c *gin.Context, img image.Image) {
	data, err := imagepkg.EncodePNG(img)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
