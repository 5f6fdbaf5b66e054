// Package pipeline turns the report's Markdown narrative into HTML.
//
// Narrative blocks are converted with Goldmark (GFM, footnotes, chroma
// highlighting) and passed through a bluemonday policy, so inline markup
// such as <sub> or <b> survives while scripts and event handlers do not.
// Page assembly and section layout live in the root primarybrief package.
package pipeline
