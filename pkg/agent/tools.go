package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hermesgpt/hermes/pkg/inference"
)

const toolGetWeather = "get_current_weather"

// chatTools is the tool schema declared on plain-chat provider calls.
func chatTools() []inference.Tool {
	return []inference.Tool{
		inference.NewTool(
			toolGetWeather,
			"Get the current weather for a given location",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"location": map[string]interface{}{
						"type":        "string",
						"description": "The city to get weather for, e.g. Paris",
					},
				},
				"required": []string{"location"},
			},
		),
	}
}

// errMalformedToolArguments marks a tool invocation whose arguments do
// not parse. The turn is abandoned, not retried.
type errMalformedToolArguments struct {
	tool string
	err  error
}

func (e *errMalformedToolArguments) Error() string {
	return fmt.Sprintf("agent: malformed arguments for tool %s: %v", e.tool, e.err)
}

func (e *errMalformedToolArguments) Unwrap() error { return e.err }

// executeTool runs a named tool and returns its result as text for the
// tool-result turn.
func (a *App) executeTool(ctx context.Context, call inference.ToolCall) (string, error) {
	switch call.Name {
	case toolGetWeather:
		var args struct {
			Location string `json:"location"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", &errMalformedToolArguments{tool: call.Name, err: err}
		}
		if args.Location == "" {
			return "", &errMalformedToolArguments{tool: call.Name, err: fmt.Errorf("missing location")}
		}

		reading, err := a.weather.Current(ctx, args.Location)
		if err != nil {
			// Tool failures are reported back to the model as a
			// result, letting it apologize in its own words.
			return fmt.Sprintf(`{"error": %q}`, err.Error()), nil
		}

		result, err := json.Marshal(map[string]interface{}{
			"location":    reading.Location,
			"description": reading.Description,
			"temperature": reading.TempC,
		})
		if err != nil {
			return "", fmt.Errorf("agent: marshal tool result: %w", err)
		}
		return string(result), nil

	default:
		// An unknown tool name means the model hallucinated a tool;
		// report it as a result so the second call can recover.
		return fmt.Sprintf(`{"error": "unknown tool %s"}`, call.Name), nil
	}
}
