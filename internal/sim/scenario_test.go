package sim_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/sim"
)

var _ = Describe("World", func() {
	var w *sim.World

	BeforeEach(func() {
		var err error
		w, err = sim.FromConfig(config.DefaultConfig(), rand.New(rand.NewSource(7)), nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when the user clicks", func() {
		It("creates a body exactly at the click point", func() {
			at := physics.V(512, 64)
			w.Submit(sim.Spawn(at.X, at.Y))
			w.Step(0.016)

			Expect(w.Len()).To(Equal(3))
			b, err := w.Body(2)
			Expect(err).NotTo(HaveOccurred())
			// one frame of motion from the click point
			moved := b.Position.Sub(at).Len()
			Expect(moved).To(BeNumerically("<=", (b.Velocity.Len()+1)*0.016+1e-9))
		})

		It("keeps every spawned body inside the bounds", func() {
			for i := 0; i < 20; i++ {
				w.Submit(sim.Spawn(float64(40*i), float64(30*i)))
			}
			for i := 0; i < 300; i++ {
				w.Step(0.016)
			}

			bounds := w.Bounds()
			for _, v := range w.Snapshot().Bodies {
				Expect(bounds.Contains(v.Position)).To(BeTrue(), "body %d escaped to %v", v.ID, v.Position)
			}
		})
	})

	It("is deterministic for the same seed and schedule", func() {
		run := func() sim.Frame {
			world, err := sim.FromConfig(config.GetPreset("cluster"), rand.New(rand.NewSource(3)), nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.NewRunner(world).Run(context.Background(), sim.RunConfig{
				Dt:       0.016,
				Frames:   120,
				Schedule: []sim.Scheduled{{Frame: 10, Cmd: sim.Spawn(100, 100)}, {Frame: 20, Cmd: sim.Push(sim.Right)}},
			})
			Expect(err).NotTo(HaveOccurred())
			return world.Snapshot()
		}

		a, b := run(), run()
		Expect(a.Bodies).To(HaveLen(len(b.Bodies)))
		for i := range a.Bodies {
			Expect(a.Bodies[i].Position).To(Equal(b.Bodies[i].Position))
			Expect(a.Bodies[i].Velocity).To(Equal(b.Bodies[i].Velocity))
		}
	})

	DescribeTable("presets build valid worlds",
		func(name string) {
			cfg := config.GetPreset(name)
			Expect(cfg).NotTo(BeNil())
			world, err := sim.FromConfig(cfg, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(world.Len()).To(BeNumerically(">=", 1))
		},
		Entry("reference", "reference"),
		Entry("gravity", "gravity"),
		Entry("liquid", "liquid"),
		Entry("friction", "friction"),
		Entry("cluster", "cluster"),
	)
})
