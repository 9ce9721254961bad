package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/performance"
)

type row struct {
	label, value string
}

func section(pdf *gofpdf.Fpdf, title string, rows []row) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(60, 5, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, r.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

// Sheet writes a one-page A4 summary of d with the power curves.
func Sheet(w io.Writer, title string, d *design.Design) error {
	if title == "" {
		title = "UAV Design Sheet"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(8)

	m := d.Mission
	section(pdf, "Mission", []row{
		{"Goal", fmt.Sprintf("%s %.1f %s", m.Goal, m.GoalValue, m.GoalUnit)},
		{"Configuration", string(m.Configuration)},
		{"Launch", launch(m.Handlaunch)},
		{"Payload", m.Payload},
	})
	section(pdf, "Sizing", []row{
		{"MTOW", fmt.Sprintf("%.3f kg", d.Weight.MTOW)},
		{"Payload mass", fmt.Sprintf("%.3f kg", d.Weight.Payload)},
		{"Wing loading", fmt.Sprintf("%.1f N/m^2", d.Loading.WingLoading)},
		{"Power loading", fmt.Sprintf("%.4f N/W", d.Loading.PowerLoading)},
		{"C_Lmax / AR", fmt.Sprintf("%.2f / %.0f", d.Loading.MaxLiftCoef, d.Loading.AspectRatio)},
		{"Stall speed", fmt.Sprintf("%.1f m/s", d.Stall)},
		{"Cruise", fmt.Sprintf("%.1f m/s, C_L %.3f", d.Cruise.Speed, d.Cruise.LiftCoef)},
	})
	section(pdf, "Components", []row{
		{"Motor", fmt.Sprintf("%s (%.0f W)", d.Motor.Name, d.Motor.ConstantPower)},
		{"Propeller", fmt.Sprintf("%s (eta %.2f)", d.Propeller.Name, d.Propeller.DesignEta)},
		{"ESC", fmt.Sprintf("%.0f A x %d", d.ESC.Amperage, d.ESC.Count)},
		{"Battery", fmt.Sprintf("%.0f Wh, %.3f kg", d.Battery.Energy/3600, d.Battery.Mass)},
		{"Camera", fmt.Sprintf("%s (%.0f W)", d.Camera.Name, d.Camera.Power)},
	})

	rows := []row{{"Total", fmt.Sprintf("%.3f kg at x=%.3f m", d.Mass.Total, d.Mass.CG.X)}}
	for _, k := range d.Mass.Kinds() {
		rows = append(rows, row{string(k), fmt.Sprintf("%.3f kg", d.Mass.ByKind[k])})
	}
	if d.Placement != nil {
		rows = append(rows, row{"CG position", fmt.Sprintf("%.3f mac (target %.3f)", d.Placement.Position, d.Placement.Target)})
	}
	section(pdf, "Mass", rows)

	if env := d.Performance; env != nil {
		section(pdf, "Performance", []row{
			{"Endurance", fmt.Sprintf("%.2f h at %.1f m/s", env.Endurance, env.EnduranceSpeed)},
			{"Range", fmt.Sprintf("%.1f km at %.1f m/s", env.Range, env.CruiseSpeed)},
		})
		if err := image(pdf, env); err != nil {
			return err
		}
	}

	if len(d.Warnings) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Warnings")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, wn := range d.Warnings {
			pdf.MultiCell(0, 5, wn.String(), "", "L", false)
		}
	}

	return pdf.Output(w)
}

// image embeds the power curves as a PNG below the current line.
func image(pdf *gofpdf.Fpdf, env *performance.Envelope) error {
	p, err := PowerCurves(env)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("power", opts, &buf)
	pdf.ImageOptions("power", 15, pdf.GetY(), 150, 0, true, opts, 0, "")
	return pdf.Error()
}

func launch(hand bool) string {
	if hand {
		return "hand"
	}
	return "runway"
}
