// Package services orchestrates an analysis run.
//
// AnalysisService.Run loads and cleans the workbook, answers the business
// questions and runs the factor investigation, opening one span per stage
// and recording stage metrics. Queries that match no rows are recorded in
// the report and the run continues; every other failure aborts it.
//
//	svc, err := services.NewAnalysisService(cfg, providers, metrics, logger)
//	if err != nil {
//		return err
//	}
//	report, err := svc.Run(ctx, cfg.InputPath(paths))
package services
