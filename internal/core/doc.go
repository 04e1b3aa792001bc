// Package core provides the board-game catalog engine.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, the CLI, or tests without
// modification.
//
// # Architecture
//
//   - Sources: a [Source] fetches raw [Record] values. Source kinds are
//     registered via [Register] (see package sources) and opened by key.
//   - Normalizer: [Normalize] maps any record shape onto the canonical [Game],
//     resolving field aliases first-match-wins (see aliases.go).
//   - Engines: [Filter] and [Sort] are pure functions over []Game.
//   - Catalog: [Catalog] owns one immutable [Snapshot] and answers
//     [Catalog.Query] by running Filter then Sort for a [Criteria] value.
//
// # Loading
//
//	src, _ := core.Open("json", core.SourceDeps{Config: cfg})
//	cat := core.NewCatalog(src)
//	if _, err := cat.Reload(ctx); err != nil {
//	    // the catalog stays empty (or keeps its previous snapshot)
//	}
//	games := cat.Query(core.DefaultCriteria().With(core.FieldPlayers, "4"))
//
// # Error Handling
//
// Coercion and normalization never fail. Loads fail with [*LoadError]
// (transport or malformed payload). [MapError] turns any error into a
// [UserMessage] with a support code.
package core
