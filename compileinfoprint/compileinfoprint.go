// compileinfoprint is imported by the command line tools for the side effect
// of printing the build description to os.Stderr, ahead of any log output.
package compileinfoprint

import "github.com/carbocation/lightcycler/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
