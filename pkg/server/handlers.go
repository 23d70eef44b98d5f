package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudydeno/module-visualizer/pkg/buildinfo"
	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/registry"
	"github.com/cloudydeno/module-visualizer/pkg/render"
	"github.com/cloudydeno/module-visualizer/pkg/resolve"
	"github.com/cloudydeno/module-visualizer/pkg/shields"
	"github.com/cloudydeno/module-visualizer/pkg/source"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) handleDependenciesOf(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "*")
	q := r.URL.Query()

	if slug == "" {
		target := q.Get("url")
		if target == "" {
			s.handleNotFound(w, r)
			return
		}
		location, err := redirectLocation(target, q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		http.Redirect(w, r, location, http.StatusFound)
		return
	}

	opts := pipeline.FromQuery(q)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	moduleURL, err := s.Resolver.ModuleURL(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if q.Get("format") == "" {
		s.serveGraphPage(w, r, slug, moduleURL, q)
		return
	}

	res, err := s.Runner.Execute(r.Context(), moduleURL, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Output)
}

// redirectLocation builds the graph page URL of target, dropping query
// parameters that only restate defaults.
func redirectLocation(target string, q url.Values) (string, error) {
	slug, err := resolve.Slug(target)
	if err != nil {
		return "", err
	}
	clean := cleanQuery(q)
	location := "/dependencies-of/" + slug
	if enc := clean.Encode(); enc != "" {
		location += "?" + enc
	}
	return location, nil
}

func cleanQuery(q url.Values) url.Values {
	clean := url.Values{}
	for k, v := range q {
		clean[k] = append([]string(nil), v...)
	}
	clean.Del("url")
	if clean.Get("std") == "combine" {
		clean.Del("std")
	}
	switch clean.Get("rankdir") {
	case render.DefaultRankDir:
		clean.Del("rankdir")
	case pipeline.RendererInteractive:
		clean.Set("renderer", pipeline.RendererInteractive)
		clean.Del("rankdir")
	}
	return clean
}

// serveGraphPage writes the page shell first and the graph once it is
// computed, so slow graphs show a loading message.
func (s *Server) serveGraphPage(w http.ResponseWriter, r *http.Request, slug, moduleURL string, q url.Values) {
	opts := pipeline.FromQuery(q)
	opts.Font = s.PageFont

	prefix := r.URL.Path + "?"
	if enc := q.Encode(); enc != "" {
		prefix += enc + "&"
	}
	page := graphPage{
		Slug:         slug,
		ModuleURL:    moduleURL,
		ExportPrefix: prefix + "format=",
	}

	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusOK)
	if err := pages.ExecuteTemplate(w, "graph-head", page); err != nil {
		s.Logger.Error("render page", "err", err)
		return
	}
	fmt.Fprint(w, "\n<!-- now waiting for graph ... ")
	http.NewResponseController(w).Flush()

	start := time.Now()
	body := s.graphHTML(r, moduleURL, opts)
	fmt.Fprintf(w, "completed in %dms -->\n\n", time.Since(start).Milliseconds())

	if err := pages.ExecuteTemplate(w, "graph-body", body); err != nil {
		s.Logger.Error("render page", "err", err)
	}
}

func (s *Server) graphHTML(r *http.Request, moduleURL string, opts pipeline.Options) graphBody {
	interactive := opts.Renderer == pipeline.RendererInteractive
	if interactive {
		opts.Format = render.FormatDOT
	} else {
		opts.Format = render.FormatSVG
	}

	res, err := s.Runner.Execute(r.Context(), moduleURL, opts)
	if err != nil {
		s.Logger.Warn("graph failed", "module", moduleURL, "err", err, "request_id", RequestID(r.Context()))
		body := graphBody{Error: errors.UserMessage(err)}
		if pe, ok := source.AsProcessError(err); ok {
			body.Process = pe
		}
		return body
	}
	if interactive {
		return graphBody{DOT: string(res.Output)}
	}
	return graphBody{SVG: template.HTML(render.EmbedSVG(res.Output))}
}

func (s *Server) handleShield(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	slug := chi.URLParam(r, "*")
	if id == shields.SetupID {
		s.serveSetup(w, r, slug)
		return
	}
	if !shields.Supports(id, slug) {
		s.handleNotFound(w, r)
		return
	}

	moduleURL, err := s.Resolver.ModuleURL(r.Context(), slug)
	if errors.Is(err, errors.ErrCodeNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err == nil {
		var badge shields.Badge
		if badge, err = s.Shields.Badge(r.Context(), id, slug, moduleURL); err == nil {
			writeJSON(w, http.StatusOK, badge)
			return
		}
	}
	s.Logger.Warn("badge failed", "shield", id, "slug", slug, "err", err)
	writeJSON(w, http.StatusInternalServerError, shields.ErrorBadge(err))
}

func (s *Server) serveSetup(w http.ResponseWriter, r *http.Request, slug string) {
	moduleURL, err := s.Resolver.ModuleURL(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, "setup", setupPage{
		Slug:      slug,
		ModuleURL: moduleURL,
		Badges:    shields.Endpoints(requestOrigin(r), slug),
	})
}

// requestOrigin is the scheme and host the client used to reach us.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) handleRegistryKey(w http.ResponseWriter, r *http.Request) {
	var key registryKey
	for _, e := range registry.ColorKey {
		if e.IsRegistry() {
			key.Registries = append(key.Registries, e)
		} else {
			key.Extra = append(key.Extra, e)
		}
	}
	s.writePage(w, "registry-key", key)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, "index", nil)
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Info:   buildinfo.Get(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "404 Not Found")
}

func (s *Server) writePage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", htmlContentType)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.Logger.Error("render page", "page", name, "err", err)
	}
}

// writeError writes err as plain text with the status of its code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if status == http.StatusNotFound {
		fmt.Fprint(w, "404 Not Found")
		return
	}
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = string(code) + ": " + msg
	}
	fmt.Fprintf(w, "%d %s\n%s\n", status, http.StatusText(status), msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
