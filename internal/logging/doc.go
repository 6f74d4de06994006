// Package logger provides leveled logging for pinsign CLI commands.
//
// Internal packages never log. They return errors, and the cmd layer decides
// what to print. PINs and key material must never be passed to a Logger.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug and error traces
//
// Without flags, only user-facing warnings are printed.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfUser()       // Always shown
//	Logger.Errorf()          // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the message as an error
//	Logger.Fatalf()          // Always shown, then exits
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Signing %s", path)
//
// The root command builds the Logger in PersistentPreRun.
package logger
