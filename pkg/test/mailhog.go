// Package test provides a fake MailHog server for tests of code built on the REST client.
package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// MailHog is an in-memory stand-in for the MailHog API, served over HTTP.
type MailHog struct {
	server   *httptest.Server
	mu       sync.Mutex
	messages []*model.Message
	deleted  []string
	requests []string
	status   int
	sockets  []*websocket.Conn
}

// NewMailHog starts a fake MailHog server, the caller must Close it.
func NewMailHog() *MailHog {
	m := &MailHog{}
	r := mux.NewRouter()
	r.UseEncodedPath()
	r.Use(m.record)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/v1/messages", m.deleteAll).Methods("DELETE")
	api.HandleFunc("/v1/messages/{id}", m.getMessage).Methods("GET")
	api.HandleFunc("/v1/messages/{id}", m.deleteMessage).Methods("DELETE")
	api.HandleFunc("/v1/messages/{id}/download", m.download).Methods("GET")
	api.HandleFunc("/v2/messages", m.list).Methods("GET")
	api.HandleFunc("/v2/search", m.search).Methods("GET")
	api.HandleFunc("/v2/websocket", m.socket).Methods("GET")
	m.server = httptest.NewServer(r)
	return m
}

// URL returns the base URL of the fake API.
func (m *MailHog) URL() string {
	return m.server.URL + "/api"
}

// Close shuts down the server.
func (m *MailHog) Close() {
	m.mu.Lock()
	for _, conn := range m.sockets {
		_ = conn.Close()
	}
	m.sockets = nil
	m.mu.Unlock()
	m.server.Close()
}

// AddMessage stores messages without notifying websocket clients.
func (m *MailHog) AddMessage(msgs ...*model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
}

// Deliver stores a message and sends it to every connected websocket client.
func (m *MailHog) Deliver(msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	for _, conn := range m.sockets {
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	return nil
}

// Sockets returns the number of connected websocket clients.
func (m *MailHog) Sockets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sockets)
}

// Messages returns the IDs of stored messages, in delivery order.
func (m *MailHog) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.messages))
	for i, msg := range m.messages {
		ids[i] = msg.ID
	}
	return ids
}

// Deleted returns the IDs passed to the delete endpoint, in request order.
func (m *MailHog) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Requests returns "METHOD /path?query" for every request served.
func (m *MailHog) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// FailWith makes every following request respond with status, 0 restores normal service.
func (m *MailHog) FailWith(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

func (m *MailHog) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, req.Method+" "+req.URL.RequestURI())
		status := m.status
		m.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (m *MailHog) deleteAll(w http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}

func (m *MailHog) deleteMessage(w http.ResponseWriter, req *http.Request) {
	id, err := url.PathUnescape(mux.Vars(req)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			m.deleted = append(m.deleted, id)
			return
		}
	}
	http.NotFound(w, req)
}

func (m *MailHog) find(req *http.Request) *model.Message {
	id, err := url.PathUnescape(mux.Vars(req)["id"])
	if err != nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

func (m *MailHog) getMessage(w http.ResponseWriter, req *http.Request) {
	msg := m.find(req)
	if msg == nil {
		http.NotFound(w, req)
		return
	}
	// MailHog labels this response as text.
	w.Header().Set("Content-Type", "text/json")
	_ = json.NewEncoder(w).Encode(msg)
}

func (m *MailHog) download(w http.ResponseWriter, req *http.Request) {
	msg := m.find(req)
	if msg == nil || msg.Raw == nil {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "message/rfc822")
	_, _ = w.Write([]byte(msg.Raw.Data))
}

func (m *MailHog) list(w http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	matches := append([]*model.Message(nil), m.messages...)
	m.mu.Unlock()
	writePage(w, req, matches)
}

func (m *MailHog) search(w http.ResponseWriter, req *http.Request) {
	kind := model.Kind(req.FormValue("kind"))
	query := req.FormValue("query")
	if !kind.Valid() {
		http.Error(w, "invalid kind", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	var matches []*model.Message
	for _, msg := range m.messages {
		if matchMessage(msg, kind, query) {
			matches = append(matches, msg)
		}
	}
	m.mu.Unlock()
	writePage(w, req, matches)
}

func (m *MailHog) socket(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.sockets = append(m.sockets, conn)
	m.mu.Unlock()
}

func matchMessage(msg *model.Message, kind model.Kind, query string) bool {
	switch kind {
	case model.KindFrom:
		return strings.Contains(msg.From.Address(), query)
	case model.KindTo:
		for _, to := range msg.To {
			if strings.Contains(to.Address(), query) {
				return true
			}
		}
		return false
	default:
		if msg.Raw != nil && strings.Contains(msg.Raw.Data, query) {
			return true
		}
		return strings.Contains(msg.Body(), query)
	}
}

func writePage(w http.ResponseWriter, req *http.Request, matches []*model.Message) {
	start, _ := strconv.Atoi(req.FormValue("start"))
	limit := 50
	if v := req.FormValue("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	page := []*model.Message{}
	if start < len(matches) {
		page = matches[start:]
		if limit < len(page) {
			page = page[:limit]
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&model.SearchResult{
		Total: len(matches),
		Count: len(page),
		Start: start,
		Items: page,
	})
}

// MessageData describes a message to build with NewMessage.
type MessageData struct {
	ID      string
	From    string
	To      string
	Subject string
	// Date header value, omitted when empty.
	Date             string
	TransferEncoding string
	Body             string
	Created          time.Time
}

// NewMessage builds a MailHog message from d, including a raw source.
func NewMessage(d MessageData) *model.Message {
	headers := mail.Header{
		"From":    {d.From},
		"To":      {d.To},
		"Subject": {d.Subject},
	}
	if d.Date != "" {
		headers["Date"] = []string{d.Date}
	}
	if d.TransferEncoding != "" {
		headers["Content-Transfer-Encoding"] = []string{d.TransferEncoding}
	}

	raw := &strings.Builder{}
	fmt.Fprintf(raw, "From: %s\r\nTo: %s\r\nSubject: %s\r\n", d.From, d.To, d.Subject)
	if d.Date != "" {
		fmt.Fprintf(raw, "Date: %s\r\n", d.Date)
	}
	if d.TransferEncoding != "" {
		fmt.Fprintf(raw, "Content-Type: text/html; charset=utf-8\r\n")
		fmt.Fprintf(raw, "Content-Transfer-Encoding: %s\r\n", d.TransferEncoding)
	}
	fmt.Fprintf(raw, "\r\n%s", d.Body)

	return &model.Message{
		ID:   d.ID,
		From: toPath(d.From),
		To:   []*model.Path{toPath(d.To)},
		Content: &model.Content{
			Headers: headers,
			Body:    d.Body,
			Size:    len(d.Body),
		},
		Created: d.Created,
		Raw: &model.Raw{
			From: d.From,
			To:   []string{d.To},
			Data: raw.String(),
			Helo: "localhost",
		},
	}
}

func toPath(address string) *model.Path {
	mailbox, domain, _ := strings.Cut(address, "@")
	return &model.Path{Mailbox: mailbox, Domain: domain}
}
