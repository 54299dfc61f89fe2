// Package render writes report element trees to documents.
//
// A Renderer owns a Format, which creates one DocWriter per call. Render
// opens the writer, walks the tree and closes the writer. On any error the
// writer is aborted instead, so a failed render never emits a partial
// document.
//
// Writers that can draw implement GraphicsWriter. Charts and maps given to a
// writer without it degrade to data tables.
package render
