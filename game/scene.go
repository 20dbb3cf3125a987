package game

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wonderland/components"
	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/systems"
	"github.com/pthm-cable/wonderland/wonderland"
)

// Scene is the ECS world around Alice: two friends, two bad guys and the food sources.
type Scene struct {
	world *ecs.World
	cfg   *config.SceneConfig

	// Entity mappers per archetype
	aliceMapper  *ecs.Map4[components.Position, components.Heading, components.Role, components.Motor]
	walkerMapper *ecs.Map4[components.Position, components.Heading, components.Role, components.Wander]
	foodMapper   *ecs.Map3[components.Position, components.Role, components.FoodVisual]

	walkerFilter *ecs.Filter3[components.Position, components.Heading, components.Wander]
	foodFilter   *ecs.Filter2[components.Role, components.FoodVisual]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	headMap  *ecs.Map1[components.Heading]
	motorMap *ecs.Map1[components.Motor]
	roleMap  *ecs.Map1[components.Role]

	alice   ecs.Entity
	friends [2]ecs.Entity
	badGuys [2]ecs.Entity
	food    [systems.NumFood]ecs.Entity

	noise opensimplex.Noise
	tick  float64

	// Reused per tick to avoid allocation
	lights []systems.LightSource
}

// NewScene creates the scene entities at their configured start positions.
func NewScene(cfg *config.Config) *Scene {
	world := ecs.NewWorld()

	s := &Scene{
		world:        world,
		cfg:          &cfg.Scene,
		aliceMapper:  ecs.NewMap4[components.Position, components.Heading, components.Role, components.Motor](world),
		walkerMapper: ecs.NewMap4[components.Position, components.Heading, components.Role, components.Wander](world),
		foodMapper:   ecs.NewMap3[components.Position, components.Role, components.FoodVisual](world),
		walkerFilter: ecs.NewFilter3[components.Position, components.Heading, components.Wander](world),
		foodFilter:   ecs.NewFilter2[components.Role, components.FoodVisual](world),
		posMap:       ecs.NewMap1[components.Position](world),
		headMap:      ecs.NewMap1[components.Heading](world),
		motorMap:     ecs.NewMap1[components.Motor](world),
		roleMap:      ecs.NewMap1[components.Role](world),
		noise:        opensimplex.NewNormalized(0),
		lights:       make([]systems.LightSource, 0, systems.NumFood),
	}

	s.spawn()
	return s
}

// spawn creates all entities once; Reset only moves them.
func (s *Scene) spawn() {
	{
		pos := components.Position{}
		head := components.Heading{}
		role := components.Role{Kind: components.KindAlice}
		motor := components.Motor{}
		s.alice = s.aliceMapper.NewEntity(&pos, &head, &role, &motor)
	}

	for i := range s.friends {
		s.friends[i] = s.spawnWalker(components.KindFriend, uint8(i), s.cfg.FriendSpeed)
	}
	for i := range s.badGuys {
		s.badGuys[i] = s.spawnWalker(components.KindBadGuy, uint8(i), s.cfg.BadGuySpeed)
	}

	for i := range s.food {
		pos := components.PositionOf(vecOf(s.cfg.FoodPositions[i]))
		role := components.Role{Kind: components.KindFood, Index: uint8(i)}
		vis := components.FoodVisual{}
		s.food[i] = s.foodMapper.NewEntity(&pos, &role, &vis)
	}
}

func (s *Scene) spawnWalker(kind components.Kind, index uint8, speed float64) ecs.Entity {
	pos := components.Position{}
	head := components.Heading{}
	role := components.Role{Kind: kind, Index: index}
	wander := components.Wander{Speed: speed}
	return s.walkerMapper.NewEntity(&pos, &head, &role, &wander)
}

// Reset moves every entity back to its start, draws fresh headings and noise
// offsets from rng and reseeds the wander noise.
func (s *Scene) Reset(seed int64, rng *rand.Rand) {
	s.noise = opensimplex.NewNormalized(seed)
	s.tick = 0

	*s.posMap.Get(s.alice) = components.PositionOf(vecOf(s.cfg.AliceStart))
	s.headMap.Get(s.alice).Angle = rng.Float64() * 2 * math.Pi
	*s.motorMap.Get(s.alice) = components.Motor{}

	resetWalkers := func(ents [2]ecs.Entity, starts [][3]float64) {
		for i, e := range ents {
			pos, head, _, wander := s.walkerMapper.Get(e)
			*pos = components.PositionOf(vecOf(starts[i]))
			head.Angle = rng.Float64() * 2 * math.Pi
			wander.Offset = rng.Float64() * 1000
		}
	}
	resetWalkers(s.friends, s.cfg.FriendStarts)
	resetWalkers(s.badGuys, s.cfg.BadGuyStarts)

	query := s.foodFilter.Query()
	for query.Next() {
		_, vis := query.Get()
		*vis = components.FoodVisual{}
	}
}

// AlicePose returns Alice's position and heading.
func (s *Scene) AlicePose() (r3.Vec, float64) {
	return s.posMap.Get(s.alice).Vec(), s.headMap.Get(s.alice).Angle
}

// SetMotor stores the brain's commands on Alice.
func (s *Scene) SetMotor(m components.Motor) {
	*s.motorMap.Get(s.alice) = m
}

// Sense computes Alice's light sensor pairs from the current scene.
// Food lights come from the visuals written back on the previous tick.
func (s *Scene) Sense(sensorRange float64) (food, foodType, friends, badGuys systems.LightReading) {
	pos, heading := s.AlicePose()

	s.lights = s.lights[:0]
	for _, e := range s.food {
		p := s.posMap.Get(e).Vec()
		_, _, vis := s.foodMapper.Get(e)
		s.lights = append(s.lights, systems.LightSource{Position: p, Intensity: vis.Light})
	}
	food = systems.SenseLights(pos, heading, s.lights, sensorRange)

	for i, e := range s.food {
		_, _, vis := s.foodMapper.Get(e)
		s.lights[i].Intensity = vis.TypeLight
	}
	foodType = systems.SenseLights(pos, heading, s.lights, sensorRange)

	friends = systems.SenseLights(pos, heading, s.walkerLights(s.friends), sensorRange)
	badGuys = systems.SenseLights(pos, heading, s.walkerLights(s.badGuys), sensorRange)
	return food, foodType, friends, badGuys
}

func (s *Scene) walkerLights(ents [2]ecs.Entity) []systems.LightSource {
	s.lights = s.lights[:0]
	for _, e := range ents {
		s.lights = append(s.lights, systems.LightSource{Position: s.posMap.Get(e).Vec(), Intensity: 1})
	}
	return s.lights
}

// Move advances Alice by differential drive and the walkers along their
// noise headings. Everything stays inside the arena.
func (s *Scene) Move() {
	half := s.cfg.ArenaHalfSize

	// Alice: mean of the motors drives forward, difference turns
	pos, head, _, motor := s.aliceMapper.Get(s.alice)
	forward := (motor.Left + motor.Right) / 2 * s.cfg.AliceSpeed
	head.Angle = systems.NormalizeAngle(head.Angle + (motor.Right-motor.Left)/2*s.cfg.AliceTurn)
	pos.X = clamp(pos.X+forward*math.Cos(head.Angle), -half, half)
	pos.Z = clamp(pos.Z+forward*math.Sin(head.Angle), -half, half)

	// Walkers: noise steers, walls reflect
	query := s.walkerFilter.Query()
	for query.Next() {
		pos, head, wander := query.Get()
		n := s.noise.Eval2(wander.Offset, s.tick*s.cfg.NoiseScale)
		head.Angle = systems.NormalizeAngle(head.Angle + (n-0.5)*0.2)

		x := pos.X + wander.Speed*math.Cos(head.Angle)
		z := pos.Z + wander.Speed*math.Sin(head.Angle)
		if x < -half || x > half {
			head.Angle = systems.NormalizeAngle(math.Pi - head.Angle)
			x = clamp(x, -half, half)
		}
		if z < -half || z > half {
			head.Angle = systems.NormalizeAngle(-head.Angle)
			z = clamp(z, -half, half)
		}
		pos.X, pos.Z = x, z
	}
	s.tick++
}

// Inputs builds the engine's per-tick snapshot from the scene.
func (s *Scene) Inputs() wonderland.Inputs {
	in := wonderland.Inputs{
		Alice:   s.posMap.Get(s.alice).Vec(),
		EatFood: s.motorMap.Get(s.alice).EatFood,
	}
	for i, e := range s.friends {
		in.Friends[i] = s.posMap.Get(e).Vec()
	}
	for i, e := range s.badGuys {
		in.BadGuys[i] = s.posMap.Get(e).Vec()
	}
	for i, e := range s.food {
		in.Food[i] = s.posMap.Get(e).Vec()
	}
	return in
}

// WriteBack copies the engine's visual outputs onto the food entities.
func (s *Scene) WriteBack(out wonderland.Outputs) {
	query := s.foodFilter.Query()
	for query.Next() {
		role, vis := query.Get()
		f := out.Food[role.Index]
		vis.Light = f.Light
		vis.TypeLight = f.TypeLight
		vis.Color = f.Color.String()
	}
}

// FoodVisual returns the visual state of food source i.
func (s *Scene) FoodVisual(i int) components.FoodVisual {
	_, _, vis := s.foodMapper.Get(s.food[i])
	return *vis
}

// Position returns the position of the entity with the given role.
func (s *Scene) Position(role components.Role) r3.Vec {
	var e ecs.Entity
	switch role.Kind {
	case components.KindAlice:
		e = s.alice
	case components.KindFriend:
		e = s.friends[role.Index]
	case components.KindBadGuy:
		e = s.badGuys[role.Index]
	case components.KindFood:
		e = s.food[role.Index]
	default:
		return r3.Vec{}
	}
	if *s.roleMap.Get(e) != role {
		return r3.Vec{}
	}
	return s.posMap.Get(e).Vec()
}

func vecOf(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
