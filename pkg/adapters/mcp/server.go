package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/katsuyo"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConjugateArgs are the arguments of the conjugate tool.
type ConjugateArgs struct {
	Word string `json:"word"`
	Cell string `json:"cell"`
}

// ConjugateResult is the structured output of the conjugate tool.
type ConjugateResult struct {
	Word    string `json:"word" jsonschema_description:"The dictionary form that was conjugated"`
	Cell    string `json:"cell" jsonschema_description:"The paradigm cell"`
	Surface string `json:"surface" jsonschema_description:"The conjugated form"`
}

// ParadigmArgs are the arguments of the paradigm tool.
type ParadigmArgs struct {
	Word string `json:"word"`
}

// CellsResult is the structured output of the list_cells tool.
type CellsResult struct {
	Cells []domain.Cell `json:"cells" jsonschema_description:"Paradigm cells in display order"`
}

// Server wraps the katsuyo Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Conjugator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Conjugator) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("katsuyo-mcp", strings.TrimSpace(katsuyo.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: conjugate
	conjugateTool := mcp.NewTool("conjugate",
		mcp.WithDescription("Conjugate a verb in its dictionary form into one paradigm cell. Use list_cells for the cell names."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Dictionary form, romanized (e.g. kaku)")),
		mcp.WithString("cell", mcp.Required(), mcp.Description("Paradigm cell name (e.g. plain_affirmative_past)")),
		mcp.WithOutputSchema[ConjugateResult](),
	)
	s.mcpServer.AddTool(conjugateTool, mcp.NewStructuredToolHandler(s.handleConjugate))

	// TOOL: paradigm
	paradigmTool := mcp.NewTool("paradigm",
		mcp.WithDescription("Return the full inflection table of a verb. Cells that cannot be formed carry an error."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Dictionary form, romanized (e.g. matsu)")),
		mcp.WithOutputSchema[domain.Paradigm](),
	)
	s.mcpServer.AddTool(paradigmTool, mcp.NewStructuredToolHandler(s.handleParadigm))

	// TOOL: list_cells
	cellsTool := mcp.NewTool("list_cells",
		mcp.WithDescription("List the paradigm cells of the grammar in display order."),
		mcp.WithOutputSchema[CellsResult](),
	)
	s.mcpServer.AddTool(cellsTool, mcp.NewStructuredToolHandler(s.handleListCells))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a named rule, chain or cell transducer as a Mermaid diagram."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Rule, chain or cell name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mermaid, err := s.engine.Graph(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
		}
		return mcp.NewToolResultText(mermaid), nil
	})
}

func (s *Server) handleConjugate(ctx context.Context, request mcp.CallToolRequest, args ConjugateArgs) (ConjugateResult, error) {
	if args.Word == "" || args.Cell == "" {
		return ConjugateResult{}, errors.New("word and cell are required")
	}
	surface, err := s.engine.Conjugate(ctx, args.Word, args.Cell)
	if err != nil {
		return ConjugateResult{}, fmt.Errorf("conjugate failed: %w", err)
	}
	return ConjugateResult{Word: args.Word, Cell: args.Cell, Surface: surface}, nil
}

func (s *Server) handleParadigm(ctx context.Context, request mcp.CallToolRequest, args ParadigmArgs) (domain.Paradigm, error) {
	if args.Word == "" {
		return domain.Paradigm{}, errors.New("word is required")
	}
	p, err := s.engine.Paradigm(ctx, args.Word)
	if err != nil {
		return domain.Paradigm{}, fmt.Errorf("paradigm failed: %w", err)
	}
	return p, nil
}

func (s *Server) handleListCells(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CellsResult, error) {
	return CellsResult{Cells: s.engine.Cells()}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: katsuyo://cells
	s.mcpServer.AddResource(mcp.NewResource("katsuyo://cells", "Paradigm Cells",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Cells())
		if err != nil {
			return nil, fmt.Errorf("failed to encode cells: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "katsuyo://cells",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
