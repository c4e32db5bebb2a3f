// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the article review tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sietev/posverdad/internal/bulk"
	"github.com/sietev/posverdad/internal/csvexport"
	"github.com/sietev/posverdad/internal/filters"
	"github.com/sietev/posverdad/internal/store"
	"github.com/sietev/posverdad/internal/view"
)

// Server wraps the MCP server with article review tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
	bulk  *bulk.Coordinator
}

// New creates a new MCP server with all tools registered. coord may be
// nil; the bulk tools are then not registered at all.
func New(st *store.Store, coord *bulk.Coordinator) *Server {
	s := &Server{store: st, bulk: coord}

	s.mcp = server.NewMCPServer(
		"Posverdad",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List articles matching a filter expression. "+
			"The query argument uses the same URL query-string syntax as the web UI "+
			"(q, source, from, to, lenMin, lenMax, polMin, polMax, subMin, subMax). "+
			"Read the posverdad://filter-syntax resource for the full vocabulary."),
		mcp.WithString("query", mcp.Description("Filter query string, e.g. ?q=chile&polMin=0 (empty for all)")),
		mcp.WithString("sort", mcp.Description("Sort column: title, source, published_at, len_chars, polarity, subjectivity")),
		mcp.WithString("order", mcp.Description("Sort order: asc (default) or desc")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Get a single article with its entities by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Article id")),
	), s.getArticle)

	s.mcp.AddTool(mcp.NewTool("set_entity_blocked",
		mcp.WithDescription("Set or clear the blocked flag on one entity of one article."),
		mcp.WithString("article_id", mcp.Required(), mcp.Description("Article id")),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id within the article")),
		mcp.WithBoolean("blocked", mcp.Required(), mcp.Description("New blocked state")),
	), s.setEntityBlocked)

	s.mcp.AddTool(mcp.NewTool("add_alias",
		mcp.WithDescription("Add an alias to one entity of one article. Exact duplicates are ignored."),
		mcp.WithString("article_id", mcp.Required(), mcp.Description("Article id")),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id within the article")),
		mcp.WithString("alias", mcp.Required(), mcp.Description("Alias to add")),
	), s.addAlias)

	s.mcp.AddTool(mcp.NewTool("remove_alias",
		mcp.WithDescription("Remove an alias from one entity of one article."),
		mcp.WithString("article_id", mcp.Required(), mcp.Description("Article id")),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("Entity id within the article")),
		mcp.WithString("alias", mcp.Required(), mcp.Description("Alias to remove")),
	), s.removeAlias)

	s.mcp.AddTool(mcp.NewTool("export_csv",
		mcp.WithDescription("Export articles matching a filter expression as CSV "+
			"(columns id,title,url,source,published_at,len_chars,polarity,subjectivity)."),
		mcp.WithString("query", mcp.Description("Filter query string (empty for all)")),
	), s.exportCSV)

	if s.bulk != nil {
		s.mcp.AddTool(mcp.NewTool("bulk_set_blocked",
			mcp.WithDescription("Set the blocked flag on every entity of the given articles."),
			mcp.WithString("article_ids", mcp.Required(), mcp.Description("Comma-separated article ids")),
			mcp.WithBoolean("blocked", mcp.Required(), mcp.Description("New blocked state")),
		), s.bulkSetBlocked)

		s.mcp.AddTool(mcp.NewTool("bulk_add_alias",
			mcp.WithDescription("Add an alias to every entity of the given articles."),
			mcp.WithString("article_ids", mcp.Required(), mcp.Description("Comma-separated article ids")),
			mcp.WithString("alias", mcp.Required(), mcp.Description("Alias to add")),
		), s.bulkAddAlias)
	}

	// Resource: filter syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("posverdad://filter-syntax", "Filter Syntax",
			mcp.WithResourceDescription("The query-string filter vocabulary shared with the web UI."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFilterSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	srt := view.Sort{
		Column: view.Column(req.GetString("sort", "")),
		Desc:   req.GetString("order", "") == "desc",
	}

	snap := s.store.Snapshot()
	f := filters.Decode(query)
	v := view.Derive(snap.Items, f, srt, view.Page{Size: len(snap.Items) + 1})

	out, _ := json.MarshalIndent(map[string]any{
		"articles":      v.Rows,
		"totalFiltered": v.TotalFiltered,
		"total":         snap.Total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.store.Snapshot()
	for _, a := range snap.Items {
		if a.ID == id {
			out, _ := json.MarshalIndent(a, "", "  ")
			return mcp.NewToolResultText(string(out)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
}

func (s *Server) setEntityBlocked(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	articleID, err := req.RequireString("article_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entityID, err := req.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blocked, err := req.RequireBool("blocked")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.store.SetEntityBlocked(articleID, entityID, blocked)
	return mcp.NewToolResultText(fmt.Sprintf("blocked=%t on %s/%s", blocked, articleID, entityID)), nil
}

func (s *Server) addAlias(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	articleID, entityID, alias, errResult := aliasArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	s.store.AddAlias(articleID, entityID, alias)
	return mcp.NewToolResultText(fmt.Sprintf("added alias %q on %s/%s", alias, articleID, entityID)), nil
}

func (s *Server) removeAlias(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	articleID, entityID, alias, errResult := aliasArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	s.store.RemoveAlias(articleID, entityID, alias)
	return mcp.NewToolResultText(fmt.Sprintf("removed alias %q on %s/%s", alias, articleID, entityID)), nil
}

func aliasArgs(req mcp.CallToolRequest) (articleID, entityID, alias string, errResult *mcp.CallToolResult) {
	articleID, err := req.RequireString("article_id")
	if err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	entityID, err = req.RequireString("entity_id")
	if err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	alias, err = req.RequireString("alias")
	if err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	if strings.TrimSpace(alias) == "" {
		return "", "", "", mcp.NewToolResultError("alias must not be blank")
	}
	return articleID, entityID, alias, nil
}

func (s *Server) exportCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	snap := s.store.Snapshot()
	f := filters.Decode(query)
	v := view.Derive(snap.Items, f, view.Sort{}, view.Page{Size: len(snap.Items) + 1})
	return mcp.NewToolResultText(csvexport.Marshal(v.Rows)), nil
}

func (s *Server) bulkSetBlocked(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireString("article_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blocked, err := req.RequireBool("blocked")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n := s.bulk.BlockAll(splitIDs(ids), blocked)
	return mcp.NewToolResultText(fmt.Sprintf("updated %d entities", n)), nil
}

func (s *Server) bulkAddAlias(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireString("article_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	alias, err := req.RequireString("alias")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(alias) == "" {
		return mcp.NewToolResultError("alias must not be blank"), nil
	}
	n := s.bulk.AddAliasAll(splitIDs(ids), alias)
	return mcp.NewToolResultText(fmt.Sprintf("updated %d entities", n)), nil
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (s *Server) readFilterSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "posverdad://filter-syntax",
			MIMEType: "text/markdown",
			Text:     FilterSyntaxContract,
		},
	}, nil
}
