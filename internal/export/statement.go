package export

import (
	"strconv"

	"github.com/cashtrail/console/internal/money"
	"github.com/cashtrail/console/internal/report"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type statementData struct {
	DistributorName string
	DistributorID   string
	Period          string
	Volume          int
	GMV             string
	Commission      string
	MgmtCommission  string
	EffectiveRate   string
	Daily           []report.DayValue
	Currency        money.Currency
}

func renderStatement(data statementData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Commission Statement", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(data.DistributorName, props.Text{Style: fontstyle.Bold}),
			text.New("Distributor ID: "+data.DistributorID, props.Text{Top: 5, Size: 9}),
			text.New("Period: "+data.Period, props.Text{Top: 10, Size: 9}),
		),
		col.New(6).Add(
			text.New("Transactions: "+strconv.Itoa(data.Volume), props.Text{Size: 9}),
			text.New("GMV: "+data.GMV, props.Text{Top: 5, Size: 9}),
			text.New("Effective rate: "+data.EffectiveRate, props.Text{Top: 10, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Distributor commission", props.Text{Size: 10}),
		text.NewCol(6, data.Commission, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(6, "Management commission", props.Text{Size: 10}),
		text.NewCol(6, data.MgmtCommission, props.Text{Size: 10, Align: align.Right}),
	)

	m.AddRow(10,
		text.NewCol(8, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "GMV", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, day := range data.Daily {
		m.AddRow(8,
			text.NewCol(8, day.Date, props.Text{Size: 9}),
			text.NewCol(4, money.Format(day.Value, data.Currency, 2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
