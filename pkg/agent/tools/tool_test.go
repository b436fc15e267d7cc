package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCompleteTool(t *testing.T) {
	tool := NewTaskCompleteTool()
	assert.Equal(t, "task_complete", tool.Name())

	t.Run("Execute_Success", func(t *testing.T) {
		res, err := tool.Execute(context.Background(), []byte(`<arguments><summary> Found 3 flights </summary></arguments>`))
		require.NoError(t, err)
		assert.Equal(t, KindComplete, res.Kind)
		assert.Equal(t, "Found 3 flights", res.Summary)
		assert.False(t, res.IsFailure())
	})

	t.Run("Execute_EmptySummary", func(t *testing.T) {
		_, err := tool.Execute(context.Background(), []byte(`<arguments><summary></summary></arguments>`))
		assert.Error(t, err)
	})

	t.Run("Execute_InvalidXML", func(t *testing.T) {
		_, err := tool.Execute(context.Background(), []byte(`invalid xml`))
		assert.Error(t, err)
	})
}

func TestRequestHumanHelpTool(t *testing.T) {
	tool := NewRequestHumanHelpTool()

	res, err := tool.Execute(context.Background(), []byte(`<arguments><description>Solve the CAPTCHA</description></arguments>`))
	require.NoError(t, err)
	assert.Equal(t, KindNeedsHumanHelp, res.Kind)
	assert.Equal(t, "Solve the CAPTCHA", res.Description)

	_, err = tool.Execute(context.Background(), []byte(`<arguments><description>  </description></arguments>`))
	assert.Error(t, err)
}

func TestRequestConfirmationTool(t *testing.T) {
	tool := NewRequestConfirmationTool()

	tests := []struct {
		name     string
		args     string
		wantRisk string
		wantErr  bool
	}{
		{name: "financial", args: `<arguments><description>Pay $20</description><risk_level>financial</risk_level></arguments>`, wantRisk: RiskFinancial},
		{name: "case folded", args: `<arguments><description>Delete repo</description><risk_level>Deletion</risk_level></arguments>`, wantRisk: RiskDeletion},
		{name: "unknown risk", args: `<arguments><description>Send</description><risk_level>minor</risk_level></arguments>`, wantErr: true},
		{name: "missing description", args: `<arguments><risk_level>irreversible</risk_level></arguments>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Execute(context.Background(), []byte(tt.args))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindNeedsConfirmation, res.Kind)
			assert.Equal(t, tt.wantRisk, res.Risk)
		})
	}
}

func TestResultIsFailure(t *testing.T) {
	assert.False(t, OK("Successfully clicked: Login").IsFailure())
	assert.True(t, OK("Error: Empty selector provided to click").IsFailure())
	assert.True(t, OK("Failed to navigate to x: timeout").IsFailure())
	assert.True(t, Failure("anything").IsFailure())
	assert.False(t, OK("Element #x did not appear within timeout").IsFailure())
}

func TestBaseToolSchema(t *testing.T) {
	schema := BaseToolSchema(map[string]interface{}{"a": StringProperty("x")}, nil)
	_, hasRequired := schema["required"]
	assert.False(t, hasRequired)
	assert.Equal(t, "object", schema["type"])
}
