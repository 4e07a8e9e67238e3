package notification

import "errors"

type fanout []Surface

// Fanout publishes to every surface. Errors are joined; one failing surface
// does not stop the others.
func Fanout(surfaces ...Surface) Surface {
	var kept fanout
	for _, surface := range surfaces {
		if surface != nil {
			kept = append(kept, surface)
		}
	}
	return kept
}

func (surfaces fanout) Notify(n Notification) error {
	var errs []error
	for _, surface := range surfaces {
		if err := surface.Notify(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (surfaces fanout) Cancel(id int) error {
	var errs []error
	for _, surface := range surfaces {
		if err := surface.Cancel(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (surfaces fanout) CreateChannel(channel Channel) error {
	var errs []error
	for _, surface := range surfaces {
		if creator, ok := surface.(ChannelCreator); ok {
			if err := creator.CreateChannel(channel); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
