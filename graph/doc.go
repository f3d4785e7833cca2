// Package graph provides the flattened representation of normalized schemas.
//
// A normalized schema references other schemas by pointer, possibly in
// cycles. The Graph collects every reachable schema once and addresses it
// by name:
//
//	g, err := graph.New(product)
//	if err != nil {
//	    return err
//	}
//	for _, n := range g.Nodes {
//	    fmt.Println(n.ID, n.Name(), n.Refs())
//	}
//
// Two distinct schemas sharing a name make New fail with a ConflictError.
//
// # Snapshots
//
// Snapshot returns a flat, serializable form of the graph. It is written
// and read as JSON, YAML or msgpack, and can be turned back into
// definitions:
//
//	err := graph.Encode(w, g.Snapshot(), graph.FormatMsgpack)
//	snap, err := graph.Decode(r, graph.FormatMsgpack)
//	docs, err := snap.Definitions()
package graph
