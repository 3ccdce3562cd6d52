// Package forms loads declarative form definitions and validates submissions
// against them.
//
// Every immediate subdirectory of the forms root is one form:
//
//	forms/
//	  contact-us/
//	    config.json
//	    templates/
//	      notify.txt
//	      notify.html
//	      main.css
//
// Load is strict. A missing config.json, broken JSON, an unknown sanitizer or
// rule, or a definition without a title, fields or emails fails the whole
// load with a *LoadError naming the form.
package forms
