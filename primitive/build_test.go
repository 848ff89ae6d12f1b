package primitive_test

import (
	"encoding/json"
	"image/color"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-mapper/options"
	"model-mapper/primitive"
)

var defaults = primitive.Options{Categories: options.CategoryDefault}

func build(t *testing.T, kind primitive.KindEnum, raw any, target reflect.Type) (any, error) {
	t.Helper()

	v, err := primitive.Build(kind, raw, target, defaults)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func TestBuild_Numbers(t *testing.T) {
	tests := []struct {
		name    string
		kind    primitive.KindEnum
		raw     any
		target  reflect.Type
		want    any
		wantErr error
	}{
		{"int from float64", primitive.KindInt, float64(42), reflect.TypeFor[int](), 42, nil},
		{"int from string", primitive.KindInt, "42", reflect.TypeFor[int](), 42, nil},
		{"int from json.Number", primitive.KindInt, json.Number("7"), reflect.TypeFor[int32](), int32(7), nil},
		{"int rejects fraction", primitive.KindInt, 1.5, reflect.TypeFor[int](), nil, primitive.ErrInvalidValue},
		{"int rejects garbage", primitive.KindInt, "42abc", reflect.TypeFor[int](), nil, primitive.ErrInvalidValue},
		{"int8 overflow", primitive.KindInt, 300, reflect.TypeFor[int8](), nil, primitive.ErrOutOfRange},
		{"uint rejects negative", primitive.KindInt, -1, reflect.TypeFor[uint](), nil, primitive.ErrOutOfRange},
		{"double from string", primitive.KindDouble, "1.0", reflect.TypeFor[float64](), 1.0, nil},
		{"double from int", primitive.KindDouble, 3, reflect.TypeFor[float64](), 3.0, nil},
		{"float narrows double", primitive.KindFloat, 2.5, reflect.TypeFor[float32](), float32(2.5), nil},
		{"float overflow", primitive.KindFloat, 1e300, reflect.TypeFor[float32](), nil, primitive.ErrOutOfRange},
		{"double rejects bool", primitive.KindDouble, true, reflect.TypeFor[float64](), nil, primitive.ErrInvalidValue},
		{"int from integral json.Number", primitive.KindInt, json.Number("3.0"), reflect.TypeFor[int](), 3, nil},
		{"int from exponent json.Number", primitive.KindInt, json.Number("1e3"), reflect.TypeFor[int64](), int64(1000), nil},
		{"uint from integral json.Number", primitive.KindInt, json.Number("2.0"), reflect.TypeFor[uint8](), uint8(2), nil},
		{"int rejects fractional json.Number", primitive.KindInt, json.Number("1.5"), reflect.TypeFor[int](), nil, primitive.ErrInvalidValue},
		{"int8 overflow json.Number", primitive.KindInt, json.Number("3e2"), reflect.TypeFor[int8](), nil, primitive.ErrOutOfRange},
		{"int keeps string fraction strict", primitive.KindInt, "3.0", reflect.TypeFor[int](), nil, primitive.ErrInvalidValue},
		{"double from exponent text", primitive.KindDouble, "-2.5e1", reflect.TypeFor[float64](), -25.0, nil},
		{"double rejects NaN text", primitive.KindDouble, "NaN", reflect.TypeFor[float64](), nil, primitive.ErrInvalidValue},
		{"double rejects Inf text", primitive.KindDouble, "Inf", reflect.TypeFor[float64](), nil, primitive.ErrInvalidValue},
		{"double rejects hex text", primitive.KindDouble, "0x1p3", reflect.TypeFor[float64](), nil, primitive.ErrInvalidValue},
		{"float rejects digit separators", primitive.KindFloat, "1_0", reflect.TypeFor[float32](), nil, primitive.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := build(t, tt.kind, tt.raw, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_TextNumbersDisabled(t *testing.T) {
	opts := primitive.Options{Categories: options.CategoryDefault &^ options.CategoryTextNumber}

	_, err := primitive.Build(primitive.KindInt, "1", reflect.TypeFor[int](), opts)
	require.ErrorIs(t, err, primitive.ErrInvalidValue)

	v, err := primitive.Build(primitive.KindInt, json.Number("1"), reflect.TypeFor[int](), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Interface())
}

func TestBuild_StringIsExact(t *testing.T) {
	got, err := build(t, primitive.KindString, "x", reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = build(t, primitive.KindString, 1.0, reflect.TypeFor[string]())
	require.ErrorIs(t, err, primitive.ErrInvalidValue)

	_, err = build(t, primitive.KindString, json.Number("1"), reflect.TypeFor[string]())
	require.ErrorIs(t, err, primitive.ErrInvalidValue)

	type Genre string

	got, err = build(t, primitive.KindString, "rock", reflect.TypeFor[Genre]())
	require.NoError(t, err)
	assert.Equal(t, Genre("rock"), got)
}

func TestBuild_Bool(t *testing.T) {
	for _, raw := range []any{true, "true", "T", "1", 1.0, 2, "TRUE"} {
		got, err := build(t, primitive.KindBool, raw, reflect.TypeFor[bool]())
		require.NoError(t, err, "%v", raw)
		assert.Equal(t, true, got, "%v", raw)
	}

	for _, raw := range []any{false, "false", "F", "0", 0.0, 0} {
		got, err := build(t, primitive.KindBool, raw, reflect.TypeFor[bool]())
		require.NoError(t, err, "%v", raw)
		assert.Equal(t, false, got, "%v", raw)
	}

	for _, raw := range []any{"yes", "", "2", []any{}} {
		_, err := build(t, primitive.KindBool, raw, reflect.TypeFor[bool]())
		require.ErrorIs(t, err, primitive.ErrInvalidValue, "%v", raw)
	}
}

func TestBuild_Date(t *testing.T) {
	got, err := build(t, primitive.KindDate, "2024-03-01T10:00:00Z", reflect.TypeFor[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got)

	opts := primitive.Options{Categories: options.CategoryDefault, Layouts: []string{time.DateOnly}}
	v, err := primitive.Build(primitive.KindDate, "2024-03-01", reflect.TypeFor[time.Time](), opts)
	require.NoError(t, err)
	assert.Equal(t, 2024, v.Interface().(time.Time).Year())

	_, err = build(t, primitive.KindDate, "2024-03-01", reflect.TypeFor[time.Time]())

	var dateErr *primitive.DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, []string{time.RFC3339}, dateErr.Layouts)

	_, err = build(t, primitive.KindDate, 1700000000, reflect.TypeFor[time.Time]())
	require.ErrorIs(t, err, primitive.ErrInvalidValue)

	opts = primitive.Options{Categories: options.CategoryAll}
	v, err = primitive.Build(primitive.KindDate, float64(1700000000), reflect.TypeFor[time.Time](), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), v.Interface().(time.Time).Unix())
}

func TestBuild_Decimal(t *testing.T) {
	tests := []struct {
		raw  any
		want primitive.Decimal
	}{
		{1.5, primitive.MustDecimal("1.5")},
		{10, primitive.MustDecimal("10")},
		{uint(3), primitive.MustDecimal("3")},
		{true, primitive.MustDecimal("1")},
		{false, primitive.MustDecimal("0")},
		{"12.50", primitive.MustDecimal("12.5")},
		{"twelve", primitive.NaN},
	}

	for _, tt := range tests {
		got, err := build(t, primitive.KindDecimal, tt.raw, reflect.TypeFor[primitive.Decimal]())
		require.NoError(t, err, "%v", tt.raw)
		assert.True(t, tt.want.Equal(got.(primitive.Decimal)), "%v: got %v", tt.raw, got)
	}

	assert.Equal(t, "NaN", primitive.NaN.String())
	assert.False(t, primitive.NaN.Equal(primitive.MustDecimal("0")))
}

func TestBuild_URL(t *testing.T) {
	got, err := build(t, primitive.KindURL, "https://example.com/a?b=c", nil)
	require.NoError(t, err)
	u := got.(url.URL)
	assert.Equal(t, "example.com", u.Hostname())

	for _, raw := range []any{"not a url", "/relative/path", "", 42} {
		_, err := build(t, primitive.KindURL, raw, nil)
		require.ErrorIs(t, err, primitive.ErrInvalidValue, "%v", raw)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "FFFFFF", want: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{in: "#FFFFFF", want: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{in: "FF00FF00", want: color.NRGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0x00}},
		{in: "00", wantErr: true},
		{in: "GGGGGG", wantErr: true},
		{in: "FFFFFFF", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := primitive.ParseColor(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, primitive.ErrInvalidValue)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "FFFFFF", primitive.FormatColor(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}))
	assert.Equal(t, "FF00FF00", primitive.FormatColor(color.NRGBA{R: 0xFF, B: 0xFF}))
}

func TestBuild_DurationAndUUID(t *testing.T) {
	got, err := build(t, primitive.KindDuration, "2h45m", reflect.TypeFor[time.Duration]())
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+45*time.Minute, got)

	got, err = build(t, primitive.KindDuration, float64(1500), reflect.TypeFor[time.Duration]())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Nanosecond, got)

	got, err = build(t, primitive.KindDuration, 1.5, reflect.TypeFor[time.Duration]())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, got)

	got, err = build(t, primitive.KindDuration, json.Number("1.5"), reflect.TypeFor[time.Duration]())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, got)

	got, err = build(t, primitive.KindDuration, json.Number("1500"), reflect.TypeFor[time.Duration]())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Nanosecond, got)

	id := uuid.New()
	got, err = build(t, primitive.KindUUID, id.String(), reflect.TypeFor[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = build(t, primitive.KindUUID, "nope", reflect.TypeFor[uuid.UUID]())
	require.ErrorIs(t, err, primitive.ErrInvalidValue)
}

func TestFormat(t *testing.T) {
	type Count uint8

	tests := []struct {
		kind primitive.KindEnum
		in   any
		want any
	}{
		{primitive.KindString, "x", "x"},
		{primitive.KindInt, 3, int64(3)},
		{primitive.KindInt, Count(3), uint64(3)},
		{primitive.KindDouble, 1.25, 1.25},
		{primitive.KindBool, true, true},
		{primitive.KindDate, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
		{primitive.KindDecimal, primitive.MustDecimal("1.50"), "1.5"},
		{primitive.KindDecimal, primitive.NaN, "NaN"},
		{primitive.KindColor, color.NRGBA{R: 1, G: 2, B: 3, A: 0xFF}, "010203"},
		{primitive.KindDuration, time.Minute, "1m0s"},
	}

	for _, tt := range tests {
		got, err := primitive.Format(tt.kind, reflect.ValueOf(tt.in), "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
