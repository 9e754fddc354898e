package circuit

// Kind discriminates the component kinds a circuit node can be.
type Kind string

const (
	KindBattery         Kind = "battery"
	KindLED             Kind = "led"
	KindRockerSwitch    Kind = "rocker-switch"
	KindMomentarySwitch Kind = "momentary-switch"
	KindPotentiometer   Kind = "potentiometer"
	KindMotor           Kind = "motor"
	KindMicrocontroller Kind = "microcontroller"
	KindFuelGauge       Kind = "fuel-gauge"
	KindWire            Kind = "wire"
)

// Kinds returns every known kind in palette order.
func Kinds() []Kind {
	return []Kind{
		KindBattery, KindLED, KindRockerSwitch, KindMomentarySwitch,
		KindPotentiometer, KindMotor, KindMicrocontroller, KindFuelGauge, KindWire,
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Role sub-classifies motors, potentiometers and rocker switches.
type Role string

const (
	RoleDrive     Role = "drive"     // motor
	RoleSteering  Role = "steering"  // motor, potentiometer
	RoleThrottle  Role = "throttle"  // potentiometer
	RolePower     Role = "power"     // rocker switch
	RoleDirection Role = "direction" // rocker switch
)

// Roles returns the roles accepted for kind k; nil when the kind has no role.
func Roles(k Kind) []Role {
	switch k {
	case KindMotor:
		return []Role{RoleDrive, RoleSteering}
	case KindPotentiometer:
		return []Role{RoleThrottle, RoleSteering}
	case KindRockerSwitch:
		return []Role{RolePower, RoleDirection}
	}
	return nil
}

// Direction is the drive motor's sense of rotation.
type Direction string

const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
)

// Position is the steering motor's bucketed position.
type Position string

const (
	Left   Position = "left"
	Center Position = "center"
	Right  Position = "right"
)

// Node is the common interface for all circuit components.
type Node interface {
	ID() string
	Kind() Kind
	Label() string
}

type base struct {
	id    string
	label string
}

func (b *base) ID() string            { return b.id }
func (b *base) Label() string         { return b.label }
func (b *base) SetLabel(label string) { b.label = label }

// -----------------------------------------------------------------------
// Variants
// -----------------------------------------------------------------------

type Battery struct{ base }

func NewBattery(id string) *Battery { return &Battery{base{id: id}} }
func (*Battery) Kind() Kind          { return KindBattery }

type LED struct{ base }

func NewLED(id string) *LED { return &LED{base{id: id}} }
func (*LED) Kind() Kind      { return KindLED }

// Wire is a passive conductor. It only ever appears as an intermediate hop.
type Wire struct{ base }

func NewWire(id string) *Wire { return &Wire{base{id: id}} }
func (*Wire) Kind() Kind       { return KindWire }

// RockerSwitch latches on or off. A power switch starts off; a direction
// switch starts on, which means forward.
type RockerSwitch struct {
	base
	Role Role
	IsOn bool
}

func NewRockerSwitch(id string, role Role) *RockerSwitch {
	return &RockerSwitch{base: base{id: id}, Role: role, IsOn: role == RoleDirection}
}

func (*RockerSwitch) Kind() Kind { return KindRockerSwitch }

// MomentarySwitch is closed only while held. In a vehicle it is the brake.
type MomentarySwitch struct {
	base
	IsPressed bool
}

func NewMomentarySwitch(id string) *MomentarySwitch {
	return &MomentarySwitch{base: base{id: id}}
}

func (*MomentarySwitch) Kind() Kind { return KindMomentarySwitch }

// Potentiometer reads 0–100. Steering pots rest at 50, throttles at 0.
type Potentiometer struct {
	base
	Role  Role
	Value float64
}

func NewPotentiometer(id string, role Role) *Potentiometer {
	p := &Potentiometer{base: base{id: id}, Role: role}
	if role == RoleSteering {
		p.Value = 50
	}
	return p
}

func (*Potentiometer) Kind() Kind { return KindPotentiometer }

// Motor holds the render state derived from the last validation.
// Drive motors use Speed, steering motors use Position.
type Motor struct {
	base
	Role      Role
	IsRunning bool
	Speed     float64
	Position  Position
	ClassName string
}

func NewMotor(id string, role Role) *Motor {
	m := &Motor{base: base{id: id}, Role: role}
	if role == RoleSteering {
		m.Position = Center
	}
	return m
}

func (*Motor) Kind() Kind { return KindMotor }

// Microcontroller mirrors the vehicle status for display.
type Microcontroller struct {
	base
	IsActive         bool
	ThrottleValue    float64
	SteeringValue    float64
	BrakeActive      bool
	FuelLevel        float64
	DirectionForward bool
}

func NewMicrocontroller(id string) *Microcontroller {
	return &Microcontroller{
		base:             base{id: id},
		SteeringValue:    50,
		FuelLevel:        100,
		DirectionForward: true,
	}
}

func (*Microcontroller) Kind() Kind { return KindMicrocontroller }

type FuelGauge struct {
	base
	FuelLevel float64
}

func NewFuelGauge(id string) *FuelGauge {
	return &FuelGauge{base: base{id: id}, FuelLevel: 100}
}

func (*FuelGauge) Kind() Kind { return KindFuelGauge }

// Clone returns a shallow copy of n as a new value.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Battery:
		c := *v
		return &c
	case *LED:
		c := *v
		return &c
	case *Wire:
		c := *v
		return &c
	case *RockerSwitch:
		c := *v
		return &c
	case *MomentarySwitch:
		c := *v
		return &c
	case *Potentiometer:
		c := *v
		return &c
	case *Motor:
		c := *v
		return &c
	case *Microcontroller:
		c := *v
		return &c
	case *FuelGauge:
		c := *v
		return &c
	}
	return n
}
