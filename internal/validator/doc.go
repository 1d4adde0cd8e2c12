// Package validator provides the issue and report types shared by the
// commands that check user-supplied files.
//
//   - [Severity]: Distinguishes blocking errors from warnings and notes.
//   - [Issue]: A single problem, located by a document field path.
//   - [Result]: Aggregates the issues for one source.
//   - [Reporter]: Writes a Result as colored text or JSON.
//
// # Basic Usage
//
//	result := &validator.Result{Source: path}
//	result.AddError("root.home_history[0].description", "contains malicious content", nil)
//	if err := validator.NewReporter(os.Stdout, validator.FormatText).Report(result); err != nil {
//		return err
//	}
package validator
