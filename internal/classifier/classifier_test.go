package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgu-campus/dorm-api/internal/models"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

func TestClassifyKeywordTable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want models.Category
	}{
		{"plumbing faucet", "Не работает кран в ванной", models.CategoryPlumbing},
		{"plumbing leak", "Течет труба под раковиной", models.CategoryPlumbing},
		{"plumbing toilet", "Засорился туалет", models.CategoryPlumbing},
		{"electrical bulb", "Перегорела лампочка в комнате", models.CategoryElectrical},
		{"electrical socket", "Искрит розетка у окна", models.CategoryElectrical},
		{"electrical power", "Пропало электричество во всем блоке", models.CategoryElectrical},
		{"furniture chair", "Сломался стул, нужна замена", models.CategoryFurniture},
		{"furniture bed", "Скрипит кровать", models.CategoryFurniture},
		{"furniture wardrobe", "Не закрывается шкаф", models.CategoryFurniture},
		{"relocation direct", "Прошу рассмотреть переселение на первый этаж", models.CategoryRelocation},
		{"relocation phrase", "Хочу сменить комнату из-за соседей... то есть переехать", models.CategoryRelocation},
		{"repair wall", "Повреждена стена возле двери", models.CategoryRepair},
		{"repair ceiling", "Осыпается потолок", models.CategoryRepair},
		{"household noise", "Шум после отбоя каждый день", models.CategoryHousehold},
		{"household trash", "Не вывозят мусор с этажа", models.CategoryHousehold},
		{"fallback", "непонятно что происходит", models.CategoryOther},
		{"uppercase input", "ТЕЧЕТ КРАН", models.CategoryPlumbing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyRulePriority(t *testing.T) {
	// Contains both a plumbing keyword and a repair keyword; the
	// plumbing rule is evaluated first and must win.
	got, err := Classify("течет кран, пол весь в воде")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryPlumbing, got)

	// Relocation precedes household, so a neighbour complaint that
	// asks for a transfer classifies as relocation.
	got, err = Classify("сосед мешает, прошу перевод")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRelocation, got)
}

func TestClassifyDeterministic(t *testing.T) {
	inputs := []string{
		"течет кран",
		"непонятно что происходит",
		"шумные соседи и сломанный стол",
	}
	for _, in := range inputs {
		first, err := Classify(in)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := Classify(in)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestClassifyRefusesEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		got, err := Classify(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrEmptyClassifyText))
		assert.Empty(t, got)
	}
}
