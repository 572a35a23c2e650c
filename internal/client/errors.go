package client

import "errors"

var errNoClientServices = errors.New("client services are not created")
