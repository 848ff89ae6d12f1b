package node

import "reflect"

// Dealer is a de-duplicating work queue of types. A type handed out once is never
// handed out again, which makes recursive walks over self-referencing models finite.
type Dealer struct {
	needs map[reflect.Type]struct{}
	done  map[reflect.Type]struct{}
}

func (d *Dealer) NextNeeds() (t reflect.Type, ok bool) {
	if len(d.needs) == 0 {
		return
	}

	for need := range d.needs {
		delete(d.needs, need)

		if _, exists := d.done[need]; !exists {
			d.Done(need)

			return need, true
		}
	}

	return
}

func (d *Dealer) Needs(t reflect.Type) {
	if d.needs == nil {
		d.needs = make(map[reflect.Type]struct{})
	}

	if _, exists := d.done[t]; !exists {
		d.needs[t] = struct{}{}
	}
}

func (d *Dealer) Done(t reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	delete(d.needs, t)
	d.done[t] = struct{}{}
}
