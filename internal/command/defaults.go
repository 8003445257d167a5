package command

import "fmt"

// Defaults returns the execution control commands.
func Defaults(ctrl Controller) []*Command {
	return []*Command{
		{
			Names: []string{"pause"},
			Short: "Pauses the arbiter until you use resume",
			Exec: func([]string) (string, error) {
				if err := ctrl.RequestPause(); err != nil {
					return "", err
				}
				return "Paused", nil
			},
		},
		{
			Names: []string{"resume"},
			Short: "Resumes the arbiter after a pause",
			Exec: func([]string) (string, error) {
				if err := ctrl.RequestResume(); err != nil {
					return "", err
				}
				return "Resumed", nil
			},
		},
		{
			Names: []string{"paused"},
			Short: "Tells you if the arbiter is paused",
			Exec: func([]string) (string, error) {
				not := "not "
				if ctrl.Paused() {
					not = ""
				}
				return fmt.Sprintf("arbiter is %spaused", not), nil
			},
		},
		{
			Names: []string{"cancel", "stop"},
			Short: "Cancels what the arbiter is currently doing",
			Exec: func([]string) (string, error) {
				ctrl.CancelEverything()
				return "ok canceled", nil
			},
		},
	}
}
