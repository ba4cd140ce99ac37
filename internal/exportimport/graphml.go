package exportimport

import (
	"encoding/xml"
	"fmt"
	"io"
)

// graphML mirrors the minimal subset of the GraphML schema NetworkX reads:
// one <graph> with <node>/<edge> elements, each attribute string-coerced
// into a <data key="..."> child. Export is one-way; there is no decoder.
type graphML struct {
	XMLName xml.Name  `xml:"graphml"`
	Graph   xmlGraph  `xml:"graph"`
}

type xmlGraph struct {
	EdgeDefault string     `xml:"edgedefault,attr"`
	Nodes       []xmlNode  `xml:"node"`
	Edges       []xmlEdge  `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	ID     string    `xml:"id,attr"`
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML encodes doc as GraphML to w, string-coercing every
// attribute (entity fields, relationship properties) for NetworkX
// compatibility. Visualisation-only: no round-trip is supported.
func WriteGraphML(w io.Writer, doc Document) error {
	g := graphML{Graph: xmlGraph{EdgeDefault: "directed"}}

	for _, e := range doc.Entities {
		node := xmlNode{ID: e.ID}
		node.Data = append(node.Data,
			xmlData{Key: "entity_type", Value: e.EntityType},
			xmlData{Key: "name", Value: e.Name},
		)
		for k, v := range e.Fields {
			node.Data = append(node.Data, xmlData{Key: k, Value: fmt.Sprintf("%v", v)})
		}
		g.Graph.Nodes = append(g.Graph.Nodes, node)
	}

	for _, r := range doc.Relationships {
		edge := xmlEdge{ID: r.ID, Source: r.SourceID, Target: r.TargetID}
		edge.Data = append(edge.Data,
			xmlData{Key: "relationship_type", Value: r.RelationshipType},
			xmlData{Key: "weight", Value: fmt.Sprintf("%v", r.Weight)},
			xmlData{Key: "confidence", Value: fmt.Sprintf("%v", r.Confidence)},
		)
		for k, v := range r.Properties {
			edge.Data = append(edge.Data, xmlData{Key: k, Value: fmt.Sprintf("%v", v)})
		}
		g.Graph.Edges = append(g.Graph.Edges, edge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(g)
}
