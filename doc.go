// Package totg provides a temporal graph library for Go.
//
// TOTG (Temporally-Ordered Temporal Graph) stores timestamped documents
// connected by typed relationships and answers three families of
// questions about them: reachability (what does this document lead to,
// what led to it, within a time window), relevance (which reachable
// documents matter most, scored by multi-head attention over TF-IDF
// similarity and temporal decay), and long-chain structure (what are
// the critical events, entities, and causal links across a multi-year
// chain, computed in bounded chunks so memory stays constant).
//
// # Basic Usage
//
// Create a client and ingest documents with timestamps:
//
//	client := totg.New()
//
//	client.AddDocumentISO("contract", "Contract signed with payment terms", "2024-01-01T00:00:00Z", nil)
//	client.AddDocumentISO("invoice", "Invoice issued for first payment", "2024-01-15T00:00:00Z", nil)
//	client.AddRelationship("contract", "invoice", "sequential", 1.0, nil)
//
// Query forward and backward reachability:
//
//	future := client.FutureDocuments("contract", 30, 50)
//	past := client.PastDocuments("invoice", 30, 50)
//
// Score relevance with bidirectional attention:
//
//	result := client.ComputeAttention("contract", 5)
//
// Analyze a long chain in bounded chunks:
//
//	analysis, err := client.AnalyzeLongChain(ctx, "contract", "", 1825)
//
// # Components
//
// The root package is a thin façade over pkg/graph (windowed BFS over
// four maintained indices), pkg/semantic (stateful TF-IDF similarity),
// pkg/attention (multi-head scoring with a TTL cache invalidated on
// graph mutation), and pkg/markovian (chunked analysis with bounded
// carryover). Each can be used directly for finer control.
package totg
