package mods

import "strings"

// marcGenres is the MARC genre term list.
var marcGenres = []string{
	"abstract or summary",
	"art original",
	"art reproduction",
	"article",
	"atlas",
	"autobiography",
	"bibliography",
	"biography",
	"book",
	"calendar",
	"catalog",
	"chart",
	"comic or graphic novel",
	"comic strip",
	"conference publication",
	"database",
	"dictionary",
	"diorama",
	"directory",
	"discography",
	"drama",
	"encyclopedia",
	"essay",
	"festschrift",
	"fiction",
	"filmography",
	"filmstrip",
	"finding aid",
	"flash card",
	"folktale",
	"font",
	"game",
	"government publication",
	"graphic",
	"globe",
	"handbook",
	"history",
	"humor, satire",
	"hymnal",
	"index",
	"instruction",
	"interview",
	"issue",
	"journal",
	"kit",
	"language instruction",
	"law report or digest",
	"legal article",
	"legal case and case notes",
	"legislation",
	"letter",
	"loose-leaf",
	"map",
	"memoir",
	"microscope slide",
	"model",
	"motion picture",
	"multivolume monograph",
	"newspaper",
	"novel",
	"numeric data",
	"offprint",
	"online system or service",
	"patent",
	"periodical",
	"picture",
	"poetry",
	"programmed text",
	"realia",
	"rehearsal",
	"remote sensing image",
	"reporting",
	"review",
	"series",
	"short story",
	"slide",
	"sound",
	"speech",
	"standard or specification",
	"statistics",
	"survey of literature",
	"technical drawing",
	"technical report",
	"thesis",
	"toy",
	"transparency",
	"treaty",
	"videorecording",
	"web site",
	"yearbook",
}

// addedGenres are genre terms outside the MARC list that are still treated
// as known genres.
var addedGenres = []string{
	"manuscript",
	"academic journal",
	"magazine",
	"hearing",
	"report",
	"Ph.D. thesis",
	"Masters thesis",
	"Diploma thesis",
	"Doctoral thesis",
	"Habilitation thesis",
	"collection",
	"handwritten note",
	"communication",
	"teletype",
	"airtel",
	"memo",
	"e-mail communication",
	"press release",
	"television broadcast",
	"electronic",
}

// genreTag returns GENRE for a known genre term and NGENRE otherwise.
func genreTag(term string) string {
	for _, list := range [][]string{marcGenres, addedGenres} {
		for _, g := range list {
			if strings.EqualFold(g, term) {
				return "GENRE"
			}
		}
	}
	return "NGENRE"
}
