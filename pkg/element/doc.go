// Package element binds user-supplied component factories to the
// reactive core and to a host platform.
//
// A component is declared with Define: a unique name, the attribute
// names to observe, and a factory. The factory receives a Setup handle
// whose Props store carries the element's attributes; it returns a
// render function producing a declarative description. The binder wraps
// that render function in a reactive computation, so attribute writes
// re-render exactly the instances whose last render read the changed
// attribute.
//
// The platform pieces are interfaces: an ElementRegistry owns the name
// space, a Host hands out render targets, and a Renderer paints a
// description into a target. The devserver package carries the
// reference in-process implementations; the eltest package carries
// recording fakes for tests.
//
// Lifecycle callbacks are registered during the factory call, either
// through the Setup handle or through the package-level functions
// (OnBeforeMount and friends). Outside a factory call the package-level
// functions do nothing.
package element
