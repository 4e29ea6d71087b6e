// Package graph extracts a typed entity graph from document text and merges
// it into the document's stored graph. Graph extraction is best-effort: any
// failure is logged and swallowed so it never takes down the surrounding
// pipeline run.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumina-kb/backend/pkg/ai"
	"github.com/lumina-kb/backend/pkg/logger"
	"github.com/lumina-kb/backend/pkg/store"
	"github.com/lumina-kb/backend/pkg/strategy"
)

// maxExtractChars bounds the text handed to the extraction model. Entity
// density is front-loaded in most documents, so the head is a usable sample.
const maxExtractChars = 6000

type extractNode struct {
	Label string `json:"label" jsonschema_description:"Canonical name of the entity"`
	Type  string `json:"type" jsonschema_description:"Entity type from the allowed list"`
}

type extractEdge struct {
	Source       string `json:"source" jsonschema_description:"Label of the source entity"`
	Target       string `json:"target" jsonschema_description:"Label of the target entity"`
	Relationship string `json:"relationship" jsonschema_description:"Relationship type from the allowed list"`
}

type extractResponse struct {
	Nodes []extractNode `json:"nodes" jsonschema_description:"Entities found in the text"`
	Edges []extractEdge `json:"edges" jsonschema_description:"Relationships between the entities"`
}

// Extractor runs graph extraction through an AI client.
type Extractor struct {
	aiClient ai.DocAIClient
}

// NewExtractor creates an Extractor backed by the given AI client.
func NewExtractor(aiClient ai.DocAIClient) *Extractor {
	return &Extractor{aiClient: aiClient}
}

// ExtractAndMerge extracts nodes and edges from text using the strategy's
// vocabulary and persists them for the document. Nodes are upserted by label,
// edges referencing unknown labels are dropped. Errors are logged, never
// returned.
func (e *Extractor) ExtractAndMerge(ctx context.Context, text string, documentID string, strat strategy.Strategy, storeClient store.DocumentStore) {
	head := text
	if runes := []rune(text); len(runes) > maxExtractChars {
		head = string(runes[:maxExtractChars])
	}

	prompt := fmt.Sprintf(
		ai.ExtractGraphPrompt,
		strat.SystemRole,
		strat.TaskPrompt,
		strings.Join(strat.NodeTypes, "/"),
		strings.Join(strat.EdgeTypes, "/"),
	)

	var res extractResponse
	err := e.aiClient.GenerateCompletionWithFormat(
		ctx,
		"extract_graph",
		"Extract typed entities and relationships from a document.",
		head,
		&res,
		ai.WithSystemPrompts(prompt),
	)
	if err != nil {
		logger.Error("[Graph] Extraction request failed", "document_id", documentID, "err", err)
		return
	}

	nodeIDs := make(map[string]int64, len(res.Nodes))
	for _, node := range res.Nodes {
		id, err := storeClient.UpsertNode(ctx, store.Node{
			DocumentID: documentID,
			Label:      node.Label,
			Type:       node.Type,
		})
		if err != nil {
			logger.Error("[Graph] Failed to persist node", "document_id", documentID, "label", node.Label, "err", err)
			return
		}
		nodeIDs[node.Label] = id
	}

	inserted := 0
	dropped := 0
	for _, edge := range res.Edges {
		sourceID, sourceOk := nodeIDs[edge.Source]
		targetID, targetOk := nodeIDs[edge.Target]
		if !sourceOk || !targetOk {
			dropped++
			continue
		}

		err := storeClient.InsertEdge(ctx, store.Edge{
			DocumentID:   documentID,
			SourceNodeID: sourceID,
			TargetNodeID: targetID,
			Relationship: edge.Relationship,
		})
		if err != nil {
			logger.Error("[Graph] Failed to persist edge", "document_id", documentID, "err", err)
			return
		}
		inserted++
	}

	logger.Info("[Graph] Merged extraction result",
		"document_id", documentID,
		"nodes", len(res.Nodes),
		"edges", inserted,
		"dropped_edges", dropped,
	)
}
