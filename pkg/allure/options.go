package allure

import "github.com/zinc-sig/ghost-allure/pkg/model"

// TestOption configures a test when it starts.
type TestOption func(*Context)

// Suite groups the test under a suite; it is reported as a suite label.
func Suite(name string) TestOption {
	return func(c *Context) {
		c.suite = name
	}
}

// Named overrides the test name passed to StartTest.
func Named(name string) TestOption {
	return func(c *Context) {
		c.name = name
	}
}

// FullName sets the stable, fully qualified test name used for history ids.
func FullName(name string) TestOption {
	return func(c *Context) {
		c.fullName = name
	}
}

// Description sets the markdown description of the test.
func Description(markdown string) TestOption {
	return func(c *Context) {
		c.description = markdown
	}
}

// Label adds one label to the test.
func Label(name, value string) TestOption {
	return func(c *Context) {
		c.labels = append(c.labels, model.Label{Name: name, Value: value})
	}
}

// Labels adds labels to the test.
func Labels(labels ...model.Label) TestOption {
	return func(c *Context) {
		c.labels = append(c.labels, labels...)
	}
}

// Parameters adds test parameters.
func Parameters(params ...model.Parameter) TestOption {
	return func(c *Context) {
		c.parameters = append(c.parameters, params...)
	}
}

// Links adds links to the test.
func Links(links ...model.Link) TestOption {
	return func(c *Context) {
		c.links = append(c.links, links...)
	}
}

// Feature, Story, Epic, Severity, Owner and Tag add the well known label of
// the same name, which report generators use for grouping and filtering.
func Feature(v string) TestOption  { return Label(model.LabelFeature, v) }
func Story(v string) TestOption    { return Label(model.LabelStory, v) }
func Epic(v string) TestOption     { return Label(model.LabelEpic, v) }
func Severity(v string) TestOption { return Label(model.LabelSeverity, v) }
func Owner(v string) TestOption    { return Label(model.LabelOwner, v) }
func Tag(v string) TestOption      { return Label(model.LabelTag, v) }

// Param builds a step or test parameter.
func Param(name, value string) model.Parameter {
	return model.Parameter{Name: name, Value: value}
}
