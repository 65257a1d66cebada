package main

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	bmpfilter "github.com/rprtr258/bmpfilter/pkg"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Filter struct {
	Route string
	Name  string
	// Code is the filter menu number understood by bmpfilter.FilterBySelector.
	Code         int
	Parametrized bool
}

func routes() []Filter {
	res := make([]Filter, 0, len(bmpfilter.Filters))
	for i, f := range bmpfilter.Filters {
		res = append(res, Filter{
			Route:        strings.ReplaceAll(strings.ToLower(f.Name()), " ", ""),
			Name:         f.Name(),
			Code:         i + 1,
			Parametrized: bmpfilter.Parametrized(f),
		})
	}
	return res
}

type FilterPageData struct {
	FilterName   string
	Message      string
	Parametrized bool
	ParamHint    string
}

func renderTemplate(pages *template.Template, w http.ResponseWriter, name string, data any) {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", "name", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bmpfilter.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, bmpfilter.ErrDecode), errors.Is(err, bmpfilter.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func contentType(ext string) string {
	if ext == bmpfilter.ExtText {
		return "text/plain; charset=utf-8"
	}
	return "image/bmp"
}

func filterHandler(pages *template.Template, f Filter, maxBodyBytes int64) http.HandlerFunc {
	page := FilterPageData{
		FilterName:   f.Name,
		Parametrized: f.Parametrized,
		ParamHint:    "strength 1-100",
	}
	if f.Code == 8 {
		page.ParamHint = "width in glyphs"
	}

	renderError := func(w http.ResponseWriter, status int, message string) {
		w.WriteHeader(status)
		p := page
		p.Message = message
		renderTemplate(pages, w, "filter.html", p)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			renderTemplate(pages, w, "filter.html", page)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			renderError(w, http.StatusBadRequest, fmt.Sprintf("Error in request:\n%q", err))
			return
		}

		param := 0
		if f.Parametrized {
			var err error
			if param, err = strconv.Atoi(r.PostFormValue("param")); err != nil {
				renderError(w, http.StatusBadRequest, fmt.Sprintf("error parsing parameter 'param':\n%q", err))
				return
			}
		}
		filter, err := bmpfilter.FilterBySelector(f.Code, param)
		if err != nil {
			renderError(w, statusFor(err), fmt.Sprintf("Error in request params:\n%q", err))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			renderError(w, http.StatusBadRequest, "'image' is not provided")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			renderError(w, http.StatusBadRequest, fmt.Sprintf("Error occured during loading image:\n%q", err))
			return
		}

		out, err := bmpfilter.Process(data, strings.ToLower(filepath.Ext(header.Filename)), filter, bmpfilter.ImageConverter{})
		if err != nil {
			renderError(w, statusFor(err), fmt.Sprintf("Error occured:\n%q", err))
			return
		}

		resultFilename := bmpfilter.OutputFilename(filepath.Base(header.Filename), filter, out.Ext)
		w.Header().Set("Content-Type", contentType(out.Ext))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resultFilename))
		w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
		w.Write(out.Data)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"url", r.URL.String(),
			"status", rec.status,
			"took", time.Since(start),
		)
	})
}

func newHandler(maxBodyBytes int64) http.Handler {
	pages := template.Must(template.ParseFS(templatesFS, "templates/*.html"))
	filters := routes()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			renderTemplate(pages, w, "404.html", nil)
			return
		}
		renderTemplate(pages, w, "index.html", filters)
	})
	for _, f := range filters {
		mux.HandleFunc("/"+f.Route, filterHandler(pages, f, maxBodyBytes))
	}
	return logRequests(mux)
}
