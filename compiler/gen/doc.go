// Package gen generates Go model structs from normalized schemas.
//
// Every schema reachable from a definition becomes one file holding one
// struct. Field types follow the schema:
//
//	Boolean        bool
//	Integer        int64
//	Float          float64
//	String         string
//	ID             string, or uuid.UUID with WithUUIDIDs
//	Date, Time     time.Time
//	Product        *Product
//	[Product]      []*Product
//	[String]       []string
//
// Optional scalars are pointers. Blackbox fields and references to excluded
// schemas are map[string]any. External references hold the ID of the
// referenced value and their Go name ends with ID.
//
// Files are rendered with jennifer and formatted with goimports:
//
//	g, err := gen.NewGenerator(gen.WithPackage("catalog"), gen.WithWorkers(4))
//	if err != nil {
//	    return err
//	}
//	paths, err := g.Write(ctx, "internal/catalog", Product{})
package gen
