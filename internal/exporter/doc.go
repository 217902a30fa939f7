// Package exporter renders an analysis report for people.
//
// ConsolePrinter prints every section as a terminal table followed by a
// one-line answer per business question. ReportExporter writes the same
// sections to an xlsx workbook (one sheet per section) and the quarterly
// rates and factor scores to CSV files with a UTF-8 BOM so spreadsheet
// tools pick the right encoding.
//
//	printer := exporter.NewConsolePrinter(os.Stdout, cfg.Output.NoColor)
//	if err := printer.Print(report); err != nil {
//		return err
//	}
//	files, err := exporter.NewReportExporter(paths, logger).Export(ctx, report)
package exporter
