package output

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

// RunCompletionCallback runs the operator-provided success_callback or
// error_callback shell command. Details about the run are passed through
// the environment. Callback failures are logged but never fail the run.
func RunCompletionCallback(callbackType string, command string, result *state.RunResult, runErr error, logger *util.Logger) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}

	cmd.Env = append(os.Environ(),
		"CHECKER_CALLBACK_TYPE="+callbackType,
		"CHECKER_RUN_ID="+result.RunID.String(),
		"CHECKER_MODE="+string(result.Mode),
		"CHECKER_LOG_PATH="+result.LogPath,
		fmt.Sprintf("CHECKER_SHIP_LOG=%t", result.ShipLog),
	)
	if runErr != nil {
		cmd.Env = append(cmd.Env, "CHECKER_ERROR_MESSAGE="+runErr.Error())
	}

	if err := cmd.Run(); err != nil {
		logger.PrintError("Could not run %s callback: %s", callbackType, err)
	}
}
