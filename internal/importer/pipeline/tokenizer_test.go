package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lf", "a\nb\nc", []string{"a", "b", "c"}},
		{"crlf", "a\r\nb\r\nc\r\n", []string{"a", "b", "c"}},
		{"mixed with blank lines", "\n a \r\n\r\n  \nb\n\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\r\n   \n"} {
		_, err := Tokenize(text)
		var empty *EmptyInputError
		require.True(t, errors.As(err, &empty))
		assert.Equal(t, KindBadFormat, KindOf(err))
	}
}

func TestSplitPlain(t *testing.T) {
	assert.Equal(t, []string{"2024-01-15", "150.5", "", "x"}, SplitPlain("2024-01-15, 150.5 ,,x"))
}

func TestSplitQuoted(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "comma inside quotes",
			line: `2024-01-15 09:00:00,"Profit up, guidance raised",x`,
			want: []string{"2024-01-15 09:00:00", "Profit up, guidance raised", "x"},
		},
		{
			name: "escaped quotes",
			line: `"He said ""buy""",b`,
			want: []string{`He said "buy"`, "b"},
		},
		{
			name: "wrapping quotes from escapes are stripped",
			line: `"""quoted""",b`,
			want: []string{"quoted", "b"},
		},
		{
			name: "bare quotes inside a field toggle quoting",
			line: `He said "buy, now",b`,
			want: []string{"He said buy, now", "b"},
		},
		{
			name: "lone leading quote runs to end of line",
			line: `"open only,b`,
			want: []string{"open only,b"},
		},
		{
			name: "single quote character field",
			line: `a,"""",b`,
			want: []string{"a", `"`, "b"},
		},
		{
			name: "empty fields and trimming",
			line: ` a , ,"" ,`,
			want: []string{"a", "", "", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitQuoted(tt.line))
		})
	}
}

func TestValidateHeader(t *testing.T) {
	require.NoError(t, ValidateHeader(PriceHeader, SplitPlain("日付,始値,高値,安値,終値,出来高")))

	err := ValidateHeader(PriceHeader, SplitPlain("日付,始値,高値,安値,終値"))
	var headerErr *HeaderFormatError
	require.True(t, errors.As(err, &headerErr))
	assert.Equal(t, 0, headerErr.Column)
	assert.Len(t, headerErr.Actual, 5)
	assert.Contains(t, err.Error(), "expected 6 columns, got 5")

	err = ValidateHeader(PriceHeader, SplitPlain("日付,始値,高値,安値,終値,volume"))
	require.True(t, errors.As(err, &headerErr))
	assert.Equal(t, 6, headerErr.Column)
	assert.Contains(t, err.Error(), `column 6 must be "出来高" (got "volume")`)
}
