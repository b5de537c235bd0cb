package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Interpolation Tests
// ==========================

func TestTemplate_Render_Interpolation(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		data     map[string]interface{}
		expected string
	}{
		{
			name:     "string field",
			source:   "Class {{className}}",
			data:     map[string]interface{}{"className": "10-A"},
			expected: "Class 10-A",
		},
		{
			name:     "whole number renders without decimals",
			source:   "Score {{score}}",
			data:     map[string]interface{}{"score": float64(85)},
			expected: "Score 85",
		},
		{
			name:     "fractional number",
			source:   "Score {{score}}",
			data:     map[string]interface{}{"score": 12.5},
			expected: "Score 12.5",
		},
		{
			name:     "boolean",
			source:   "Flag {{flag}}",
			data:     map[string]interface{}{"flag": false},
			expected: "Flag false",
		},
		{
			name:   "nested path",
			source: "Previously: {{previous.analysis}}",
			data: map[string]interface{}{
				"previous": map[string]interface{}{"analysis": "steady"},
			},
			expected: "Previously: steady",
		},
		{
			name:     "whitespace inside tag",
			source:   "{{ subject }}",
			data:     map[string]interface{}{"subject": "Math"},
			expected: "Math",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.name, tt.source)
			require.NoError(t, err)

			out, err := tmpl.Render(tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTemplate_Render_InterpolationFailures(t *testing.T) {
	tmpl := MustParse("t", "{{student}} {{grades}}")

	_, err := tmpl.Render(map[string]interface{}{"grades": []interface{}{}})
	assert.ErrorIs(t, err, ErrMissingField)

	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, []string{"student"}, mfe.Fields)

	_, err = tmpl.Render(map[string]interface{}{"student": "Ana", "grades": []interface{}{1.0}})
	assert.ErrorIs(t, err, ErrNotScalar)
}

func TestTemplate_Render_RequiredFieldsCheckedFirst(t *testing.T) {
	tmpl := MustParse("t", "{{#each grades}}{{score}}{{/each}} in {{subject}} for {{className}}", "className", "subject", "grades")

	tests := []struct {
		name    string
		data    map[string]interface{}
		missing []string
	}{
		{
			name:    "absent",
			data:    map[string]interface{}{"subject": "Math", "grades": []interface{}{}},
			missing: []string{"className"},
		},
		{
			name:    "null and empty string",
			data:    map[string]interface{}{"className": nil, "subject": "", "grades": []interface{}{}},
			missing: []string{"className", "subject"},
		},
		{
			name:    "all missing",
			data:    map[string]interface{}{},
			missing: []string{"className", "subject", "grades"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tmpl.Render(tt.data)

			assert.Empty(t, out)
			var mfe *MissingFieldError
			require.True(t, errors.As(err, &mfe))
			assert.Equal(t, tt.missing, mfe.Fields)
		})
	}
}

// ==========================
// Conditional Tests
// ==========================

func TestTemplate_Render_Conditional(t *testing.T) {
	tmpl := MustParse("cond", "A{{#if value}}[yes]{{else}}[no]{{/if}}B")

	tests := []struct {
		name     string
		value    interface{}
		present  bool
		expected string
	}{
		{name: "absent", present: false, expected: "A[no]B"},
		{name: "null", value: nil, present: true, expected: "A[no]B"},
		{name: "empty string", value: "", present: true, expected: "A[no]B"},
		{name: "non-empty string", value: "x", present: true, expected: "A[yes]B"},
		{name: "empty array", value: []interface{}{}, present: true, expected: "A[no]B"},
		{name: "non-empty array", value: []interface{}{1.0}, present: true, expected: "A[yes]B"},
		{name: "false", value: false, present: true, expected: "A[no]B"},
		{name: "true", value: true, present: true, expected: "A[yes]B"},
		{name: "empty object", value: map[string]interface{}{}, present: true, expected: "A[yes]B"},
		{name: "zero", value: float64(0), present: true, expected: "A[no]B"},
		{name: "non-zero", value: float64(3), present: true, expected: "A[yes]B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := map[string]interface{}{}
			if tt.present {
				data["value"] = tt.value
			}

			out, err := tmpl.Render(data)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTemplate_Render_ConditionalBodyOnlyResolvedWhenTruthy(t *testing.T) {
	tmpl := MustParse("cond", "{{#if previous}}Compare with {{previous.analysis}}.{{/if}}Done")

	out, err := tmpl.Render(map[string]interface{}{})

	require.NoError(t, err)
	assert.Equal(t, "Done", out)
}

// ==========================
// Iteration Tests
// ==========================

func TestTemplate_Render_IterationPreservesOrderAndIndex(t *testing.T) {
	tmpl := MustParse("each", "{{#each grades}}{{@index}}/{{@number}}:{{studentName}}={{score}};{{/each}}")

	out, err := tmpl.Render(map[string]interface{}{
		"grades": []interface{}{
			map[string]interface{}{"studentName": "Zoe", "score": 91.0},
			map[string]interface{}{"studentName": "Adam", "score": 64.0},
			map[string]interface{}{"studentName": "Maya", "score": 78.5},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "0/1:Zoe=91;1/2:Adam=64;2/3:Maya=78.5;", out)
}

func TestTemplate_Render_IterationOverScalars(t *testing.T) {
	tmpl := MustParse("each", "{{#each topics}}- {{this}}\n{{/each}}")

	out, err := tmpl.Render(map[string]interface{}{
		"topics": []string{"Fractions", "Decimals"},
	})

	require.NoError(t, err)
	assert.Equal(t, "- Fractions\n- Decimals\n", out)
}

func TestTemplate_Render_NestedIteration(t *testing.T) {
	tmpl := MustParse("nested",
		"{{#each courses}}Course {{@index}} {{name}} ({{teacher}}):\n"+
			"{{#each schedule}}  slot {{@index}} {{day}} {{startTime}}-{{endTime}} of {{name}}\n{{/each}}"+
			"{{/each}}")

	out, err := tmpl.Render(map[string]interface{}{
		"courses": []interface{}{
			map[string]interface{}{
				"name":    "Algebra",
				"teacher": "Ms. Ito",
				"schedule": []interface{}{
					map[string]interface{}{"day": "Mon", "startTime": "09:00", "endTime": "10:00"},
					map[string]interface{}{"day": "Wed", "startTime": "11:00", "endTime": "12:00"},
				},
			},
			map[string]interface{}{
				"name":     "Biology",
				"teacher":  "Mr. Diaz",
				"schedule": []interface{}{},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"Course 0 Algebra (Ms. Ito):\n"+
			"  slot 0 Mon 09:00-10:00 of Algebra\n"+
			"  slot 1 Wed 11:00-12:00 of Algebra\n"+
			"Course 1 Biology (Mr. Diaz):\n",
		out)
}

func TestTemplate_Render_ElementFieldsShadowOuterScope(t *testing.T) {
	tmpl := MustParse("shadow", "{{#each items}}{{name}}@{{subject}} {{/each}}")

	out, err := tmpl.Render(map[string]interface{}{
		"name":    "outer",
		"subject": "Math",
		"items": []interface{}{
			map[string]interface{}{"name": "inner"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "inner@Math ", out)
}

func TestTemplate_Render_IterationOverNonSequence(t *testing.T) {
	tmpl := MustParse("each", "{{#each grades}}x{{/each}}")

	_, err := tmpl.Render(map[string]interface{}{"grades": "none"})

	assert.ErrorIs(t, err, ErrNotSequence)
}

// ==========================
// Elision Equivalence
// ==========================

func TestTemplate_Render_ElidedSectionsMatchStrippedSource(t *testing.T) {
	full := MustParse("full",
		"Analyze {{subject}}.\n"+
			"{{#if previousAnalysis}}Compare with: {{previousAnalysis.analysis}}\n{{/if}}"+
			"{{#each grades}}- {{studentName}}: {{score}}\n{{/each}}"+
			"Respond in JSON.")
	stripped := MustParse("stripped",
		"Analyze {{subject}}.\n"+
			"Respond in JSON.")

	data := map[string]interface{}{
		"subject": "Math",
		"grades":  []interface{}{},
	}

	fullOut, err := full.Render(data)
	require.NoError(t, err)
	strippedOut, err := stripped.Render(data)
	require.NoError(t, err)

	assert.Equal(t, strippedOut, fullOut)
	assert.Equal(t, "Analyze Math.\nRespond in JSON.", fullOut)
}

// ==========================
// Parse Tests
// ==========================

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "unclosed tag", source: "Hello {{name"},
		{name: "empty tag", source: "Hello {{ }}"},
		{name: "unclosed if", source: "{{#if a}}x"},
		{name: "unclosed each", source: "{{#each a}}x"},
		{name: "mismatched close", source: "{{#if a}}x{{/each}}"},
		{name: "stray close", source: "x{{/if}}"},
		{name: "stray else", source: "x{{else}}y"},
		{name: "unknown block", source: "{{#with a}}x{{/with}}"},
		{name: "missing block path", source: "{{#if }}x{{/if}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, tt.source)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("bad", "{{#if a}}") })
}

func TestToData(t *testing.T) {
	type grade struct {
		StudentName string  `json:"studentName"`
		Score       float64 `json:"score"`
	}
	in := struct {
		Subject string  `json:"subject"`
		Grades  []grade `json:"grades"`
	}{Subject: "Math", Grades: []grade{{StudentName: "Ana", Score: 90}}}

	data, err := ToData(in)
	require.NoError(t, err)

	out, err := MustParse("t", "{{subject}}:{{#each grades}}{{studentName}}={{score}}{{/each}}").Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Math:Ana=90", out)
}

func TestTemplate_Required_ReturnsCopy(t *testing.T) {
	tmpl := MustParse("t", "{{a}}", "a")

	req := tmpl.Required()
	req[0] = "mutated"

	assert.Equal(t, []string{"a"}, tmpl.Required())
	assert.Equal(t, "t", tmpl.Name())
}
