// Package graph serves a live call graph view: a static page that follows
// updates pushed over a websocket.
package graph

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sansls.graph")

// GraphData holds the nodes and links of the graph.
type GraphData struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node represents a graph node.
// ID must be unique.
type Node struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Link represents a directed edge between two nodes.
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Edge names a call from one function to another.
type Edge struct {
	From string
	To   string
}

// IncrementalMessage is sent over WebSocket to update clients.
type IncrementalMessage struct {
	Op    string     `json:"op"`              // "init", "add", "deleteNode", "deleteLink"
	Graph *GraphData `json:"graph,omitempty"` // used for "init"
	Node  *Node      `json:"node,omitempty"`  // for add/deleteNode
	Link  *Link      `json:"link,omitempty"`  // for add/deleteLink
}

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// View holds one graph and the websocket clients watching it.
type View struct {
	graphMu sync.Mutex
	graph   GraphData
	ids     map[string]int
	nextID  int

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool

	srvMu  sync.Mutex
	server *http.Server
	url    string
}

func NewView() *View {
	return &View{
		graph:   GraphData{Nodes: []Node{}, Links: []Link{}},
		ids:     make(map[string]int),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start serves the view on addr (":0" picks a free port) and returns the
// URL of the page. Later calls return the same URL.
func (v *View) Start(addr string) (string, error) {
	v.srvMu.Lock()
	defer v.srvMu.Unlock()
	if v.server != nil {
		return v.url, nil
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("/ws", v.handleWS)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	v.server = srv

	// Serve closes l even when Close ran first.
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("graph server: %s", err)
		}
	}()

	// A wildcard listener is opened through localhost.
	host, port, _ := net.SplitHostPort(l.Addr().String())
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	v.url = "http://" + net.JoinHostPort(host, port) + "/static/"
	return v.url, nil
}

// Close stops the server and drops all clients.
func (v *View) Close() error {
	v.srvMu.Lock()
	defer v.srvMu.Unlock()
	if v.server == nil {
		return nil
	}
	err := v.server.Shutdown(context.Background())
	v.server = nil

	v.clientsMu.Lock()
	for conn := range v.clients {
		conn.Close()
		delete(v.clients, conn)
	}
	v.clientsMu.Unlock()
	return err
}

func (v *View) idFor(label string) int {
	if id, ok := v.ids[label]; ok {
		return id
	}
	v.nextID++
	v.ids[label] = v.nextID
	return v.nextID
}

// Show replaces the graph with labels and edges. When the title changes
// clients get a fresh snapshot; otherwise only the difference is
// broadcast. Edges naming unknown labels are dropped.
func (v *View) Show(title string, labels []string, edges []Edge) {
	v.graphMu.Lock()

	if title != v.graph.Title {
		v.ids = make(map[string]int)
		v.nextID = 0
		v.graph = build(v, title, labels, edges)
		snapshot := v.snapshotLocked()
		v.graphMu.Unlock()
		v.broadcast(IncrementalMessage{Op: "init", Graph: &snapshot})
		return
	}

	next := build(v, title, labels, edges)
	var msgs []IncrementalMessage

	wantLinks := make(map[Link]bool, len(next.Links))
	for _, l := range next.Links {
		wantLinks[l] = true
	}
	haveLinks := make(map[Link]bool, len(v.graph.Links))
	for _, l := range v.graph.Links {
		haveLinks[l] = true
		if !wantLinks[l] {
			l := l
			msgs = append(msgs, IncrementalMessage{Op: "deleteLink", Link: &l})
		}
	}

	wantNodes := make(map[int]bool, len(next.Nodes))
	for _, n := range next.Nodes {
		wantNodes[n.ID] = true
	}
	haveNodes := make(map[int]bool, len(v.graph.Nodes))
	for _, n := range v.graph.Nodes {
		haveNodes[n.ID] = true
		if !wantNodes[n.ID] {
			msgs = append(msgs, IncrementalMessage{Op: "deleteNode", Node: &Node{ID: n.ID}})
			delete(v.ids, n.Label)
		}
	}
	for _, n := range next.Nodes {
		if !haveNodes[n.ID] {
			n := n
			msgs = append(msgs, IncrementalMessage{Op: "add", Node: &n})
		}
	}
	for _, l := range next.Links {
		if !haveLinks[l] {
			l := l
			msgs = append(msgs, IncrementalMessage{Op: "add", Link: &l})
		}
	}

	v.graph = next
	v.graphMu.Unlock()

	for _, m := range msgs {
		v.broadcast(m)
	}
}

func build(v *View, title string, labels []string, edges []Edge) GraphData {
	g := GraphData{Title: title, Nodes: make([]Node, 0, len(labels)), Links: []Link{}}
	known := make(map[string]bool, len(labels))
	for _, label := range labels {
		if known[label] {
			continue
		}
		known[label] = true
		g.Nodes = append(g.Nodes, Node{ID: v.idFor(label), Label: label})
	}
	seen := make(map[Link]bool)
	for _, e := range edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		l := Link{Source: v.ids[e.From], Target: v.ids[e.To]}
		if !seen[l] {
			seen[l] = true
			g.Links = append(g.Links, l)
		}
	}
	sort.Slice(g.Links, func(i, j int) bool {
		if g.Links[i].Source != g.Links[j].Source {
			return g.Links[i].Source < g.Links[j].Source
		}
		return g.Links[i].Target < g.Links[j].Target
	})
	return g
}

func (v *View) snapshotLocked() GraphData {
	return GraphData{
		Title: v.graph.Title,
		Nodes: append([]Node{}, v.graph.Nodes...),
		Links: append([]Link{}, v.graph.Links...),
	}
}

// Snapshot returns a copy of the current graph.
func (v *View) Snapshot() GraphData {
	v.graphMu.Lock()
	defer v.graphMu.Unlock()
	return v.snapshotLocked()
}

// broadcast marshals and sends a message to all clients.
func (v *View) broadcast(msg IncrementalMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("marshal %s: %s", msg.Op, err)
		return
	}
	v.clientsMu.Lock()
	defer v.clientsMu.Unlock()
	for conn := range v.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warningf("broadcast: %s", err)
			conn.Close()
			delete(v.clients, conn)
		}
	}
}

// handleWS upgrades HTTP connections and sends initial graph state.
func (v *View) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("websocket upgrade: %s", err)
		return
	}

	// Register and send the snapshot under the clients lock so no update
	// can reach the client before its init message.
	v.clientsMu.Lock()
	state := v.Snapshot()
	data, err := json.Marshal(IncrementalMessage{Op: "init", Graph: &state})
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		v.clientsMu.Unlock()
		log.Warningf("send init: %s", err)
		conn.Close()
		return
	}
	v.clients[conn] = true
	v.clientsMu.Unlock()

	defer func() {
		v.clientsMu.Lock()
		delete(v.clients, conn)
		v.clientsMu.Unlock()
		conn.Close()
	}()

	// keep connection open
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
}
