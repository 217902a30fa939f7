// Package files locates the deposit attempts workbook.
//
// The input may name a workbook or a directory; a directory resolves to its
// most recently modified .xlsx file, skipping office lock files ("~$...").
//
//	path, err := files.ResolveInput(cfg.InputPath(paths))
package files
