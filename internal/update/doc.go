// Package update provides the self-update workflow for fastreer-gui.
//
// This package handles:
//   - Querying the GitHub API for the latest release
//   - Comparing dotted versions to detect available updates
//   - Locating the release jar and downloading it into the installation
//     directory
//   - Recording the new version in the settings store
//
// The package is isolated from UI concerns. Confirmation is delegated to a
// Confirmer and progress to a ProgressFunc, so any front-end can drive it.
//
// Example usage:
//
//	flow := update.NewFlow(store,
//	    update.NewChecker(update.DefaultRepoOwner, update.DefaultRepoName),
//	    update.NewUpdater())
//	res, err := flow.Run(ctx, confirmer)
//	if err != nil {
//	    // report err to the user
//	}
//	fmt.Println(res.Message())
package update
