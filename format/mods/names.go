package mods

import (
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/helpers"
	"github.com/lehigh-university-libraries/bibwalk/xmltree"
)

// skippedCorporateParts prefixes namePart values that are dropped from
// corporate names.
const skippedCorporateParts = "Tidigare Institutioner"

func (c *converter) name(n *xmltree.Node, level int) error {
	switch strings.ToLower(n.Attr("type")) {
	case "personal":
		return c.person(n, level)
	case "corporate":
		return c.corporate(n, ":CORP", level)
	case "conference":
		return c.event(n, level)
	default:
		return c.corporate(n, ":ASIS", level)
	}
}

// roles collects the roleTerm values below n, joined by '|'.
func roles(n *xmltree.Node) (string, error) {
	var terms []string
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		if d.Is("roleTerm") && d.HasValue() {
			terms = append(terms, d.Value)
		}
		return nil
	})
	return strings.Join(terms, "|"), err
}

func (c *converter) person(n *xmltree.Node, level int) error {
	var family, given, suffix []string
	var role string
	for _, child := range n.Children {
		switch child.Tag {
		case "namePart":
			if !child.HasValue() {
				continue
			}
			switch strings.ToLower(child.Attr("type")) {
			case "family":
				family = append(family, child.Value)
			case "suffix":
				suffix = append(suffix, child.Value)
			case "termsofaddress", "date":
			default:
				given = append(given, child.Value)
			}
		case "role":
			r, err := roles(child)
			if err != nil {
				return err
			}
			if r != "" {
				if role != "" {
					role += "|"
				}
				role += r
			}
		}
	}

	var name helpers.Name
	if len(family) > 0 {
		name.Family = strings.Join(family, " ")
		name.Given = given
	} else {
		name = helpers.ParseName(strings.Join(given, " "))
	}
	if len(suffix) > 0 {
		name.Suffix = strings.Join(suffix, " ")
	}
	if name.Family == "" && len(name.Given) == 0 {
		return nil
	}

	tag, _ := c.role(role)
	return c.addDup(tag, name.Pack(), level)
}

func (c *converter) corporate(n *xmltree.Node, suffix string, level int) error {
	var parts []string
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		if d.Is("namePart") && d.HasValue() && !strings.HasPrefix(d.Value, skippedCorporateParts) {
			parts = append(parts, d.Value)
		}
		return nil
	})
	if err != nil {
		return err
	}
	role, err := roles(n)
	if err != nil {
		return err
	}

	tag, known := c.role(role)
	if known {
		tag += suffix
	}
	return c.addDup(tag, strings.Join(parts, ", "), level)
}

// role resolves a role term to a person tag. Unmapped terms are kept as the
// tag and logged with their relator label.
func (c *converter) role(term string) (string, bool) {
	tag, known := helpers.ResolveRole(term)
	if !known {
		c.log.Debug("unmapped name role", "role", term, "label", helpers.RelatorLabel(term))
	}
	return tag, known
}

// event stores the last namePart of a conference name.
func (c *converter) event(n *xmltree.Node, level int) error {
	var last string
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		if d.Is("namePart") && d.HasValue() {
			last = d.Value
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.add("EVENT", last, level)
}
