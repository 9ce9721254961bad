package design_test

import (
	"encoding/json"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/assets"
	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/log"
	"github.com/san-kum/uavsizer/internal/weight"
)

func sources() design.Sources {
	database, err := db.Open(assets.FS())
	Expect(err).NotTo(HaveOccurred())
	return design.Sources{
		DB:       database,
		Airfoils: airfoil.NewLibrary(assets.FS()),
		AVLDir:   GinkgoT().TempDir(),
		Logger:   log.Discard(),
	}
}

func marshal(d *design.Design) []byte {
	b, err := json.Marshal(d)
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Size", func() {
	var src design.Sources

	BeforeEach(func() {
		src = sources()
	})

	Context("hand-launched endurance mission", func() {
		var d *design.Design

		BeforeEach(func() {
			var err error
			d, err = design.Size(config.DefaultConfig(), src)
			Expect(err).NotTo(HaveOccurred())
		})

		It("estimates the take-off mass from the payload", func() {
			Expect(d.Weight.MTOW).To(BeNumerically("~", 1.7884, 1e-3))
			Expect(d.Weight.Payload).To(BeNumerically("~", 0.25, 1e-9))
		})

		It("picks the hand-launch design point", func() {
			Expect(d.Stall).To(BeNumerically("~", 8, 1e-9))
			Expect(d.Loading.MaxLiftCoef).To(BeNumerically("~", 1.25, 1e-9))
			Expect(d.Loading.AspectRatio).To(BeNumerically("~", 10, 1e-9))
		})

		It("selects a motor close to the design power", func() {
			target := d.Loading.Power(d.Weight.MTOW)
			Expect(math.Abs(d.Motor.ConstantPower-target) / target).To(BeNumerically("<=", 0.1))
			Expect(d.Propeller.Name).NotTo(BeEmpty())
			Expect(d.ESC.Amperage).To(BeNumerically(">=", d.Motor.MaxCurrent))
		})

		It("carries enough battery for the goal", func() {
			Expect(d.Battery.Mass).To(BeNumerically(">", 0))
			Expect(d.Battery.Energy).To(BeNumerically("~", d.Cruise.BatteryEnergy, 1e-6))
			Expect(d.Performance.Endurance).To(BeNumerically(">=", 0.9))
		})

		It("builds a closed fuselage", func() {
			Expect(d.Fuselage.Complete()).To(BeTrue())
			Expect(d.Fuselage.WettedArea()).To(BeNumerically(">", 0))
			Expect(d.Scissor).NotTo(BeNil())
		})

		It("accounts for every mass item", func() {
			sum := 0.0
			for _, it := range d.Mass.Items {
				sum += it.Weight
			}
			Expect(sum).To(BeNumerically("~", d.Mass.Total, 1e-9))
			Expect(d.Mass.Total).To(BeNumerically(">", d.Battery.Mass))
		})

		It("balances without stability warnings", func() {
			Expect(d.Warnings.Has(core.UnstableDesign)).To(BeFalse())
			Expect(d.Placement.Position).To(BeNumerically("~", design.OperatingPosition, 1e-3))
			Expect(d.Placement.Wing.Position.X).To(BeNumerically(">=", d.Fuselage.BBox().Min.X))
		})

		It("orders frames from nose to tail", func() {
			for i := 1; i < len(d.Frames.Frames); i++ {
				Expect(d.Frames.Frames[i].X()).To(BeNumerically(">", d.Frames.Frames[i-1].X()))
			}
			for i := 1; i < len(d.Fuselage.Frames); i++ {
				Expect(d.Fuselage.Frames[i].X()).To(BeNumerically(">", d.Fuselage.Frames[i-1].X()))
			}
		})

		It("flags component mass far from the sizing mtow", func() {
			off := math.Abs(d.Mass.Total-d.Weight.MTOW) / d.Weight.MTOW
			Expect(d.Warnings.Has(core.MassMismatch)).To(Equal(off > design.MassTolerance))
		})
	})

	It("applies a moderate wing offset", func() {
		cfg := config.DefaultConfig()
		offset := 0.02
		cfg.Airframe.WingOffset = &offset
		d, err := design.Size(cfg, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Placement.Wing.TipOffset).To(BeNumerically("~", offset, 1e-12))
	})

	It("resets a wing offset that sweeps too far", func() {
		cfg := config.DefaultConfig()
		offset := 1.0
		cfg.Airframe.WingOffset = &offset
		d, err := design.Size(cfg, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Warnings.Has(core.ValidationReset)).To(BeTrue())
		w := d.Placement.Wing
		Expect(w.TipOffset).To(BeNumerically("~", w.RootChord-w.TipChord, 1e-12))
	})

	It("recovers the payload from an MTOW target", func() {
		cfg := config.DefaultConfig()
		cfg.Mission.WeightTarget = weight.TargetMTOW
		cfg.Mission.TargetValue = 1.788395
		d, err := design.Size(cfg, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Weight.Payload).To(BeNumerically("~", 0.25, 1e-3))
	})

	It("sizes a runway-launched range mission", func() {
		cfg := config.DefaultConfig()
		cfg.Mission.Goal = loading.GoalRange
		cfg.Mission.GoalValue = 100
		cfg.Mission.GoalUnit = "km"
		cfg.Mission.TargetValue = 0.5
		cfg.Mission.Handlaunch = false
		d, err := design.Size(cfg, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Stall).To(BeNumerically("~", 12, 1e-9))
		Expect(d.Loading.AspectRatio).To(BeElementOf(12.0, 20.0))
		Expect(d.Performance.Range).To(BeNumerically(">=", 90))
	})

	It("sizes a flying wing without a tail", func() {
		cfg := config.GetPreset(loading.GoalEndurance, "flyingwing")
		Expect(cfg).NotTo(BeNil())
		d, err := design.Size(cfg, src)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Scissor).To(BeNil())
		Expect(d.Placement.Tail).To(BeNil())
	})

	It("rejects an invalid configuration before evaluating", func() {
		cfg := config.DefaultConfig()
		cfg.Mission.TargetValue = -1
		_, err := design.Size(cfg, src)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Aircraft", func() {
	It("matches a fresh evaluation after an input round trip", func() {
		src := sources()
		cfg := config.DefaultConfig()
		a := design.New(cfg, src)
		first, err := a.Evaluate()
		Expect(err).NotTo(HaveOccurred())

		changed := config.DefaultConfig()
		changed.Mission.TargetValue = 0.4
		a.Set(changed)
		Expect(a.Weight.Valid()).To(BeFalse())
		other, err := a.Evaluate()
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Weight.MTOW).To(BeNumerically(">", first.Weight.MTOW))

		a.Set(cfg)
		again, err := a.Evaluate()
		Expect(err).NotTo(HaveOccurred())

		fresh, err := design.New(config.DefaultConfig(), src).Evaluate()
		Expect(err).NotTo(HaveOccurred())
		Expect(marshal(again)).To(MatchJSON(marshal(fresh)))
	})

	It("recomputes only downstream stages after an airframe change", func() {
		a := design.New(config.DefaultConfig(), sources())
		_, err := a.Evaluate()
		Expect(err).NotTo(HaveOccurred())

		frame := a.Airframe.Get()
		frame.TailSlenderness = 0.8
		a.Airframe.Set(frame)
		Expect(a.Weight.Valid()).To(BeTrue())
		Expect(a.Motor.Valid()).To(BeTrue())
		Expect(a.Fuselage.Valid()).To(BeFalse())
	})
})
