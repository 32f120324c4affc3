package model

import "errors"

// Not-added errors: returned by any operation on an entity that has not
// been persisted (spec §7).
var (
	ErrComponentNotAdded        = errors.New("model: component not added")
	ErrPropertyNotAdded         = errors.New("model: property not added")
	ErrPropertyTypeNotAdded     = errors.New("model: property type not added")
	ErrComponentTypeNotAdded    = errors.New("model: component type not added")
	ErrComponentVersionNotAdded = errors.New("model: component version not added")
	ErrFlagNotAdded             = errors.New("model: flag not added")
	ErrFlagTypeNotAdded         = errors.New("model: flag type not added")
	ErrFlagSeverityNotAdded     = errors.New("model: flag severity not added")
	ErrUserNotAdded             = errors.New("model: user not added")
	ErrUserGroupNotAdded        = errors.New("model: user group not added")
	ErrPermissionNotAdded       = errors.New("model: permission not added")
)

// Already-added errors.
var (
	ErrVertexAlreadyAdded = errors.New("model: vertex already added")
	ErrEdgeAlreadyAdded   = errors.New("model: edge already added")
)

// Schema errors.
var (
	ErrPropertyWrongNValues         = errors.New("model: property has the wrong number of values for its type")
	ErrPropertyNotMatchRegex        = errors.New("model: property value does not match its type's allowed regex")
	ErrPropertyTypeZeroAllowedTypes = errors.New("model: property type must allow at least one component type")
	ErrUserGroupZeroPermission      = errors.New("model: user group must have at least one permission")
)

// Temporal and relational errors.
var (
	ErrPropertyIsSame                    = errors.New("model: property is the same as the currently active one")
	ErrSetPropertyBeforeExistingProperty = errors.New("model: cannot set a property before a future property without force")
	ErrPropertiesOverlapping             = errors.New("model: forced property interval overlaps an existing future property")
	ErrComponentsAlreadyConnected        = errors.New("model: components are already connected at this instant")
	ErrComponentsAlreadyDisconnected     = errors.New("model: components are already disconnected at this instant")
	ErrConnectBeforeExistingConnection   = errors.New("model: cannot connect before a future connection without force")
	ErrConnectionsOverlapping            = errors.New("model: forced connection interval overlaps an existing future connection")
	ErrConnectToSelf                     = errors.New("model: a component cannot be connected to itself")
	ErrAlreadySubcomponent               = errors.New("model: already a subcomponent")
	ErrIsSubcomponentOfOther             = errors.New("model: inverse subcomponent relation already exists")
	ErrSubcomponentToSelf                = errors.New("model: a component cannot be its own subcomponent")
)
