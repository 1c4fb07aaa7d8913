package neo4jdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
)

const (
	deleteMapCypher = `MATCH (n:MindMapNode {mapId: $mapId}) DETACH DELETE n`

	mergeNodesCypher = `
UNWIND $nodes AS node
MERGE (n:MindMapNode {mapId: $mapId, id: node.id})
SET n.label = node.label, n.type = node.type, n.level = node.level,
    n.content = node.content, n.x = node.x, n.y = node.y`

	mergeEdgesCypher = `
UNWIND $edges AS edge
MATCH (s:MindMapNode {mapId: $mapId, id: edge.source})
MATCH (t:MindMapNode {mapId: $mapId, id: edge.target})
MERGE (s)-[r:HAS_CHILD {id: edge.id}]->(t)`
)

var ErrNotConnected = errors.New("neo4jdb: not connected")

// ExportGraph replaces the stored copy of a mind map: existing nodes for mapID are
// removed, then nodes and HAS_CHILD relationships are merged in one write transaction.
func (c *Client) ExportGraph(ctx context.Context, mapID string, g *graph.CanonicalGraph) error {
	if c == nil || c.Driver == nil {
		return ErrNotConnected
	}
	if g == nil {
		return fmt.Errorf("neo4jdb: nil graph")
	}
	nodes, edges := exportParams(g)

	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, deleteMapCypher, map[string]any{"mapId": mapID}); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, mergeNodesCypher, map[string]any{"mapId": mapID, "nodes": nodes}); err != nil {
			return nil, err
		}
		if len(edges) == 0 {
			return nil, nil
		}
		_, err := tx.Run(ctx, mergeEdgesCypher, map[string]any{"mapId": mapID, "edges": edges})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4jdb: export %s: %w", mapID, err)
	}
	c.log.Debug("Exported mind map", "map_id", mapID, "nodes", len(nodes), "edges", len(edges))
	return nil
}

// DeleteGraph removes every node stored for mapID.
func (c *Client) DeleteGraph(ctx context.Context, mapID string) error {
	if c == nil || c.Driver == nil {
		return ErrNotConnected
	}
	_, err := neo4j.ExecuteQuery(ctx, c.Driver, deleteMapCypher, map[string]any{"mapId": mapID},
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(c.Database))
	if err != nil {
		return fmt.Errorf("neo4jdb: delete %s: %w", mapID, err)
	}
	return nil
}

// exportParams flattens the graph into driver-friendly parameter lists.
func exportParams(g *graph.CanonicalGraph) ([]any, []any) {
	nodes := make([]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, map[string]any{
			"id":      n.ID,
			"label":   n.Label,
			"type":    n.Type,
			"level":   int64(n.Level),
			"content": n.Content,
			"x":       n.Position.X,
			"y":       n.Position.Y,
		})
	}
	edges := make([]any, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, map[string]any{
			"id":     e.ID,
			"source": e.SourceID,
			"target": e.TargetID,
		})
	}
	return nodes, edges
}
