package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandbox/internal/physics"
)

var _ = Describe("two attracting bodies", func() {
	var (
		integ *physics.Integrator
		heavy *physics.Body
		light *physics.Body
	)

	BeforeEach(func() {
		var err error
		integ = physics.NewIntegrator(physics.NewBoundary(800, 600, physics.DefaultRestitution), false, physics.DefaultGravity)
		heavy, err = physics.NewParticle(physics.V(200, 300), physics.Vec2{}, physics.Vec2{}, 10, 20)
		Expect(err).NotTo(HaveOccurred())
		light, err = physics.NewParticle(physics.V(300, 200), physics.Vec2{}, physics.Vec2{}, 1, 20)
		Expect(err).NotTo(HaveOccurred())
	})

	It("produces equal and opposite forces along the connecting line", func() {
		fa, fb := physics.GravitationalAttraction(heavy, light, 100)

		Expect(fa.Len()).To(BeNumerically("~", fb.Len(), 1e-12))
		Expect(fa.Add(fb).IsZero()).To(BeTrue())

		dir := light.Position.Sub(heavy.Position).Normalize()
		Expect(fa.Normalize().X).To(BeNumerically("~", dir.X, 1e-12))
		Expect(fa.Normalize().Y).To(BeNumerically("~", dir.Y, 1e-12))
		// |d|^2 = 20000 clamps to 100, so |F| = 100*10*1/100.
		Expect(fa.Len()).To(BeNumerically("~", 10, 1e-9))
	})

	It("moves both bodies toward each other after one frame", func() {
		before := light.Position.Sub(heavy.Position).Len()

		fa, fb := physics.GravitationalAttraction(heavy, light, 100)
		heavy.AddForce(fa)
		light.AddForce(fb)
		integ.Step(heavy, 0.016)
		integ.Step(light, 0.016)

		toLight := light.Position.Sub(heavy.Position)
		Expect(heavy.Velocity.Dot(toLight)).To(BeNumerically(">", 0))
		Expect(light.Velocity.Dot(toLight)).To(BeNumerically("<", 0))
		Expect(toLight.Len()).To(BeNumerically("<", before))

		Expect(heavy.Force().IsZero()).To(BeTrue())
		Expect(light.Force().IsZero()).To(BeTrue())
	})
})

var _ = Describe("boundary response", func() {
	It("clamps a body leaving through the left wall and bounces it back", func() {
		integ := physics.NewIntegrator(physics.NewBoundary(800, 600, physics.DefaultRestitution), false, physics.DefaultGravity)
		b, err := physics.NewParticle(physics.V(5, 5), physics.V(-50, 0), physics.Vec2{}, 1, 10)
		Expect(err).NotTo(HaveOccurred())

		integ.Step(b, 0.1)

		Expect(b.Position.X).To(Equal(10.0))
		Expect(b.Velocity.X).To(BeNumerically("~", 45, 1e-9))
	})

	DescribeTable("damped reflection on every wall",
		func(pos, vel physics.Vec2, radius float64, axis string) {
			b, err := physics.NewParticle(pos, vel, physics.Vec2{}, 1, radius)
			Expect(err).NotTo(HaveOccurred())
			before := b.Velocity

			physics.NewBoundary(800, 600, physics.DefaultRestitution).Resolve(b)

			switch axis {
			case "x":
				Expect(math.Signbit(b.Velocity.X)).NotTo(Equal(math.Signbit(before.X)))
				Expect(math.Abs(b.Velocity.X)).To(BeNumerically("~", 0.9*math.Abs(before.X), 1e-9))
			case "y":
				Expect(math.Signbit(b.Velocity.Y)).NotTo(Equal(math.Signbit(before.Y)))
				Expect(math.Abs(b.Velocity.Y)).To(BeNumerically("~", 0.9*math.Abs(before.Y), 1e-9))
			}
		},
		Entry("left", physics.V(-3, 300), physics.V(-20, 0), 4.0, "x"),
		Entry("right", physics.V(803, 300), physics.V(20, 0), 4.0, "x"),
		Entry("top", physics.V(400, 1), physics.V(0, -20), 4.0, "y"),
		Entry("bottom", physics.V(400, 599), physics.V(0, 20), 4.0, "y"),
	)
})

var _ = Describe("drag", func() {
	It("is zero at rest and opposes motion otherwise", func() {
		Expect(physics.Drag(physics.Vec2{}, 3).IsZero()).To(BeTrue())

		v := physics.V(-12, 5)
		d := physics.Drag(v, 0.1)
		Expect(d.Dot(v)).To(BeNumerically("<", 0))
		Expect(d.Normalize().X).To(BeNumerically("~", -v.Normalize().X, 1e-12))
		Expect(d.Normalize().Y).To(BeNumerically("~", -v.Normalize().Y, 1e-12))
	})
})
