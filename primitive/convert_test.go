package primitive_test

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/options"
	"docmapper/primitive"
)

func TestService_Convert(t *testing.T) {
	t.Parallel()

	svc := primitive.NewService(options.CategoryAll)
	bigValue, _ := new(big.Int).SetString("99999999999999999999", 10)

	tests := []struct {
		name   string
		value  primitive.Value
		to     primitive.FieldType
		format string
		want   primitive.Value
	}{
		{"identity", primitive.Int(7), primitive.TypeInteger, "", primitive.Int(7)},
		{"widening", primitive.Short(-3), primitive.TypeLong, "", primitive.Long(-3)},
		{"narrowing in range", primitive.Long(120), primitive.TypeByte, "", primitive.Byte(120)},
		{"double truncates", primitive.Double(2.75), primitive.TypeInteger, "", primitive.Int(2)},
		{"negative double truncates", primitive.Double(-2.75), primitive.TypeInteger, "", primitive.Int(-2)},
		{"text to integer", primitive.String(" 123 "), primitive.TypeInteger, "", primitive.Int(123)},
		{"text to big integer", primitive.String("99999999999999999999"), primitive.TypeBigInteger, "", primitive.BigInt(bigValue)},
		{"text to decimal", primitive.String("1.50"), primitive.TypeDecimal, "", primitive.Decimal(decimal.RequireFromString("1.5"))},
		{"fraction text to integer", primitive.String("2.0"), primitive.TypeInteger, "", primitive.Int(2)},
		{"blank text to number", primitive.String("  "), primitive.TypeDouble, "", primitive.Value{}},
		{"exact long to double", primitive.Long(1 << 53), primitive.TypeDouble, "", primitive.Double(1 << 53)},
		{"exact integer to float", primitive.Int(1 << 24), primitive.TypeFloat, "", primitive.Float(1 << 24)},
		{"decimal to double", primitive.Decimal(decimal.RequireFromString("0.1")), primitive.TypeDouble, "", primitive.Double(0.1)},
		{"decimal to float", primitive.Decimal(decimal.RequireFromString("2.5")), primitive.TypeFloat, "", primitive.Float(2.5)},
		{"float to decimal", primitive.Float(0.1), primitive.TypeDecimal, "", primitive.Decimal(decimal.RequireFromString("0.1"))},
		{"float to big integer", primitive.Float(3.9), primitive.TypeBigInteger, "", primitive.BigInt(big.NewInt(3))},
		{"integer to text", primitive.Int(2), primitive.TypeString, "", primitive.String("2")},
		{"double to text", primitive.Double(100), primitive.TypeString, "", primitive.String("100")},
		{"large double to text", primitive.Double(1e21), primitive.TypeString, "", primitive.String("1e+21")},
		{"one to bool", primitive.Long(1), primitive.TypeBoolean, "", primitive.Bool(true)},
		{"bool to byte", primitive.Bool(false), primitive.TypeByte, "", primitive.Byte(0)},
		{"yes to bool", primitive.String("Yes"), primitive.TypeBoolean, "", primitive.Bool(true)},
		{"bool to text", primitive.Bool(true), primitive.TypeString, "", primitive.String("true")},
		{"char to integer", primitive.Char('A'), primitive.TypeInteger, "", primitive.Int(65)},
		{"integer to char", primitive.Int(97), primitive.TypeChar, "", primitive.Char('a')},
		{"text to char", primitive.String("z"), primitive.TypeChar, "", primitive.Char('z')},
		{
			"text to date", primitive.String("2024-03-05"), primitive.TypeDate, "",
			primitive.Date(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			"text to date with layout", primitive.String("05.03.2024"), primitive.TypeDate, "02.01.2006",
			primitive.Date(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			"text to time", primitive.String("13:45:10"), primitive.TypeTime, "",
			primitive.Time(time.Date(0, time.January, 1, 13, 45, 10, 0, time.UTC)),
		},
		{
			"date time to text", primitive.DateTime(time.Date(2024, time.March, 5, 13, 45, 10, 0, time.UTC)), primitive.TypeString, "",
			primitive.String("2024-03-05T13:45:10Z"),
		},
		{
			"millis to date time", primitive.Long(0), primitive.TypeDateTime, "",
			primitive.DateTime(time.Unix(0, 0).UTC()),
		},
		{
			"date time to millis", primitive.DateTime(time.Date(1970, time.January, 1, 0, 0, 1, 0, time.UTC)), primitive.TypeLong, "",
			primitive.Long(1000),
		},
		{
			"date time to date", primitive.DateTime(time.Date(2024, time.March, 5, 13, 45, 10, 0, time.UTC)), primitive.TypeDate, "",
			primitive.Date(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.Convert(tt.value, tt.to, tt.format)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestService_ConvertErrors(t *testing.T) {
	t.Parallel()

	svc := primitive.NewService(options.CategoryAll)

	tests := []struct {
		name    string
		value   primitive.Value
		to      primitive.FieldType
		concern primitive.Concern
	}{
		{"double overflows short", primitive.Double(1e20), primitive.TypeShort, primitive.ConcernRange},
		{"long overflows byte", primitive.Long(128), primitive.TypeByte, primitive.ConcernRange},
		{"nan to integer", primitive.Double(math.NaN()), primitive.TypeInteger, primitive.ConcernRange},
		{"double overflows float", primitive.Double(1e300), primitive.TypeFloat, primitive.ConcernRange},
		{"long loses double precision", primitive.Long(1<<53 + 1), primitive.TypeDouble, primitive.ConcernRange},
		{"max long to double", primitive.Long(math.MaxInt64), primitive.TypeDouble, primitive.ConcernRange},
		{"integer loses float precision", primitive.Int(1<<24 + 1), primitive.TypeFloat, primitive.ConcernRange},
		{"long loses float precision", primitive.Long(1<<40 + 1), primitive.TypeFloat, primitive.ConcernRange},
		{
			"decimal loses double precision", primitive.Decimal(decimal.RequireFromString("9007199254740993")),
			primitive.TypeDouble, primitive.ConcernRange,
		},
		{"big integer loses double precision", primitive.BigInt(big.NewInt(1<<53 + 1)), primitive.TypeDouble, primitive.ConcernRange},
		{"text overflows integer", primitive.String("2147483648"), primitive.TypeInteger, primitive.ConcernRange},
		{"text overflows double", primitive.String("1e400"), primitive.TypeDouble, primitive.ConcernRange},
		{"text is not a number", primitive.String("abc"), primitive.TypeLong, primitive.ConcernFormat},
		{"two to bool", primitive.Int(2), primitive.TypeBoolean, primitive.ConcernRange},
		{"text is not a bool", primitive.String("maybe"), primitive.TypeBoolean, primitive.ConcernFormat},
		{"text is not a char", primitive.String("ab"), primitive.TypeChar, primitive.ConcernRange},
		{"text is not a date", primitive.String("yesterday"), primitive.TypeDate, primitive.ConcernFormat},
		{"no rule", primitive.Date(time.Now()), primitive.TypeBoolean, primitive.ConcernUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Convert(tt.value, tt.to, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, primitive.ErrConversion)

			var convErr *primitive.ConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, tt.concern, convErr.Concern)
			assert.Equal(t, tt.value.Type(), convErr.From)
			assert.Equal(t, tt.to, convErr.To)
		})
	}
}

func TestService_NullSkipsRule(t *testing.T) {
	t.Parallel()

	svc := primitive.NewService(options.CategoryNone)

	calls := 0
	svc.Register(primitive.TypeString, primitive.TypeInteger, primitive.ConcernNone, func(any, string) (any, error) {
		calls++
		return int32(1), nil
	})

	got, err := svc.Convert(primitive.Value{}, primitive.TypeInteger, "")
	require.NoError(t, err)
	assert.True(t, got.IsNull())

	conv, ok := svc.FindConverter(primitive.TypeString, primitive.TypeInteger)
	require.True(t, ok)

	got, err = conv.Convert(primitive.Value{}, "")
	require.NoError(t, err)
	assert.True(t, got.IsNull())
	assert.Zero(t, calls)

	got, err = svc.Convert(primitive.String("x"), primitive.TypeInteger, "")
	require.NoError(t, err)
	assert.Equal(t, primitive.Int(1), got)
	assert.Equal(t, 1, calls)
}

func TestService_Categories(t *testing.T) {
	t.Parallel()

	none := primitive.NewService(options.CategoryNone)

	_, ok := none.FindConverter(primitive.TypeString, primitive.TypeInteger)
	assert.False(t, ok)

	_, ok = none.FindConverter(primitive.TypeDate, primitive.TypeDate)
	assert.True(t, ok, "identity rules are always present")

	_, ok = none.FindConverter(primitive.TypeComplex, primitive.TypeComplex)
	assert.False(t, ok)

	_, err := none.Convert(primitive.String("1"), primitive.TypeInteger, "")
	assert.True(t, errors.Is(err, primitive.ErrConversion))

	all := primitive.NewService(options.CategoryAll)

	conv, ok := all.FindConverter(primitive.TypeDouble, primitive.TypeShort)
	require.True(t, ok)
	assert.True(t, conv.Concerns.Has(primitive.ConcernRange|primitive.ConcernFractionalPart))
	assert.Equal(t, options.CategoryUnsafeNumber, conv.Category)

	conv, ok = all.FindConverter(primitive.TypeInteger, primitive.TypeLong)
	require.True(t, ok)
	assert.Equal(t, primitive.ConcernNone, conv.Concerns)
	assert.Equal(t, options.CategorySafeNumber, conv.Category)

	pairs := all.Pairs()
	require.NotEmpty(t, pairs)
	assert.Equal(t, primitive.ConversionPair{From: primitive.TypeString, To: primitive.TypeString}, pairs[0])
	assert.Greater(t, len(pairs), len(none.Pairs()))
}

func TestService_Format(t *testing.T) {
	t.Parallel()

	// lexical forms do not depend on enabled categories
	for _, svc := range []*primitive.Service{
		primitive.NewService(options.CategoryAll),
		primitive.NewService(options.CategoryNone),
	} {
		got, err := svc.Format(primitive.Int(5), "")
		require.NoError(t, err)
		assert.Equal(t, "5", got)

		got, err = svc.Format(primitive.Double(2.5), "")
		require.NoError(t, err)
		assert.Equal(t, "2.5", got)

		got, err = svc.Format(primitive.Date(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)), "02/01/2006")
		require.NoError(t, err)
		assert.Equal(t, "05/03/2024", got)

		got, err = svc.Format(primitive.Value{}, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestConcern_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NONE", primitive.ConcernNone.String())
	assert.Equal(t, "RANGE|FORMAT", (primitive.ConcernRange | primitive.ConcernFormat).String())
	assert.Equal(t, "UNSUPPORTED", primitive.ConcernUnsupported.String())
}

func TestNewValue(t *testing.T) {
	t.Parallel()

	v, err := primitive.NewValue(primitive.TypeInteger, int32(3))
	require.NoError(t, err)
	assert.Equal(t, "INTEGER(3)", v.String())

	_, err = primitive.NewValue(primitive.TypeInteger, "3")
	require.Error(t, err)

	_, err = primitive.NewValue(primitive.TypeComplex, "x")
	require.Error(t, err)

	v, err = primitive.NewValue(primitive.TypeString, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, "null", v.String())
}

func TestInferNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		literal string
		want    primitive.FieldType
	}{
		{"2", primitive.TypeInteger},
		{"-2147483648", primitive.TypeInteger},
		{"2147483648", primitive.TypeLong},
		{"9223372036854775808", primitive.TypeBigInteger},
		{"1.5", primitive.TypeDouble},
		{"1e3", primitive.TypeDouble},
		{"1e400", primitive.TypeNumber},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			t.Parallel()

			v, err := primitive.InferNumber(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Type())
		})
	}

	_, err := primitive.InferNumber("twelve")
	require.ErrorIs(t, err, primitive.ErrConversion)
}
