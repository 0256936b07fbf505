package app

import "github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"

// seedItems is the starter checklist item catalog, inserted by Bootstrap
// when a category has no items. The category step ceilings are policy
// constants enforced independently of these counts.
var seedItems = map[string][]store.ChecklistItem{
	"outside": {
		{ID: "itm_out_01", CategorySlug: "outside", DisplayOrder: 1, OriginalText: "Inspect external brickwork for cracked bricks and inconsistent mortar joints.", FriendlyText: "Check the brickwork for cracks and messy mortar."},
		{ID: "itm_out_02", CategorySlug: "outside", DisplayOrder: 2, OriginalText: "Check roof tiles for slipped, cracked or missing units from ground level.", FriendlyText: "Look up at the roof for slipped or missing tiles."},
		{ID: "itm_out_03", CategorySlug: "outside", DisplayOrder: 3, OriginalText: "Verify guttering and downpipes are secure, aligned and free of visible damage.", FriendlyText: "Make sure gutters and downpipes are straight and firmly fixed."},
		{ID: "itm_out_04", CategorySlug: "outside", DisplayOrder: 4, OriginalText: "Examine window frames and sills externally for damage, sealant gaps and paint defects.", FriendlyText: "Check outside window frames for scratches, gaps and paint problems."},
		{ID: "itm_out_05", CategorySlug: "outside", DisplayOrder: 5, OriginalText: "Operate all external doors and inspect thresholds, seals and finishes.", FriendlyText: "Open and close the outside doors and check their seals and finish."},
		{ID: "itm_out_06", CategorySlug: "outside", DisplayOrder: 6, OriginalText: "Inspect driveway and paths for uneven, cracked or stained surfaces.", FriendlyText: "Walk the driveway and paths looking for cracks and stains."},
		{ID: "itm_out_07", CategorySlug: "outside", DisplayOrder: 7, OriginalText: "Check garage door operation, frame fixings and internal finish where applicable.", FriendlyText: "Try the garage door and look over its frame and inside finish."},
		{ID: "itm_out_08", CategorySlug: "outside", DisplayOrder: 8, OriginalText: "Confirm fencing and boundary treatments are complete, plumb and undamaged.", FriendlyText: "Check fences and boundaries are finished, upright and undamaged."},
		{ID: "itm_out_09", CategorySlug: "outside", DisplayOrder: 9, OriginalText: "Assess garden levels, turf condition and drainage away from the building.", FriendlyText: "Check the garden is level, the turf is healthy and water drains away from the house."},
		{ID: "itm_out_10", CategorySlug: "outside", DisplayOrder: 10, OriginalText: "Test external taps and inspect meter boxes for secure fit and undamaged doors.", FriendlyText: "Turn on outside taps and check the meter box doors close properly."},
		{ID: "itm_out_11", CategorySlug: "outside", DisplayOrder: 11, OriginalText: "Inspect render and external paintwork for cracks, staining and patchy coverage.", FriendlyText: "Look over the render and outside paint for cracks and patchy areas."},
		{ID: "itm_out_12", CategorySlug: "outside", DisplayOrder: 12, OriginalText: "Verify external lighting, doorbells and numbering are fitted and functional.", FriendlyText: "Check outside lights, the doorbell and the house number all work."},
	},
	"inside": {
		{ID: "itm_in_01", CategorySlug: "inside", DisplayOrder: 1, OriginalText: "Inspect the entrance door internally, including locks, seals and finish.", FriendlyText: "Check the inside of the front door, its locks and seals."},
		{ID: "itm_in_02", CategorySlug: "inside", DisplayOrder: 2, OriginalText: "Examine wall surfaces in every room for cracks, blemishes and poor decoration.", FriendlyText: "Look over the walls in each room for cracks and rough patches."},
		{ID: "itm_in_03", CategorySlug: "inside", DisplayOrder: 3, OriginalText: "Check ceilings for cracks, nail pops and uneven plaster finish.", FriendlyText: "Check the ceilings for cracks and bumps."},
		{ID: "itm_in_04", CategorySlug: "inside", DisplayOrder: 4, OriginalText: "Inspect skirting boards and architraves for gaps, damage and unfinished caulking.", FriendlyText: "Check skirting boards and door surrounds for gaps and damage."},
		{ID: "itm_in_05", CategorySlug: "inside", DisplayOrder: 5, OriginalText: "Operate every internal door checking alignment, latching and handle fit.", FriendlyText: "Open and close every inside door and check it latches properly."},
		{ID: "itm_in_06", CategorySlug: "inside", DisplayOrder: 6, OriginalText: "Examine window boards and internal reveals for damage and sealant quality.", FriendlyText: "Check windowsills and surrounds inside for damage."},
		{ID: "itm_in_07", CategorySlug: "inside", DisplayOrder: 7, OriginalText: "Inspect kitchen units, doors and drawers for alignment, damage and smooth running.", FriendlyText: "Check kitchen cupboards and drawers open smoothly and line up."},
		{ID: "itm_in_08", CategorySlug: "inside", DisplayOrder: 8, OriginalText: "Check worktops and upstands for scratches, chips and poor joints.", FriendlyText: "Look over the worktops for scratches, chips and bad joins."},
		{ID: "itm_in_09", CategorySlug: "inside", DisplayOrder: 9, OriginalText: "Test fitted appliances for operation and confirm they are undamaged.", FriendlyText: "Turn on the fitted appliances and check they work and look right."},
		{ID: "itm_in_10", CategorySlug: "inside", DisplayOrder: 10, OriginalText: "Run all sinks and taps checking flow, drainage and leaks below.", FriendlyText: "Run every sink and tap and look for leaks underneath."},
		{ID: "itm_in_11", CategorySlug: "inside", DisplayOrder: 11, OriginalText: "Inspect bathroom sanitaryware for chips, scratches and secure fixing.", FriendlyText: "Check baths, basins and toilets for chips and wobbles."},
		{ID: "itm_in_12", CategorySlug: "inside", DisplayOrder: 12, OriginalText: "Examine wall and floor tiling for cracked tiles, uneven grout and sealant gaps.", FriendlyText: "Check the tiling for cracked tiles and untidy grout or sealant."},
		{ID: "itm_in_13", CategorySlug: "inside", DisplayOrder: 13, OriginalText: "Test sockets and switches in every room and inspect faceplates for damage.", FriendlyText: "Try the sockets and light switches in each room."},
		{ID: "itm_in_14", CategorySlug: "inside", DisplayOrder: 14, OriginalText: "Inspect floor coverings for damage, lifting edges and uneven boards.", FriendlyText: "Check the floors for damage, lifting edges and creaks."},
		{ID: "itm_in_15", CategorySlug: "inside", DisplayOrder: 15, OriginalText: "Check radiators are level, secure and free of scratches, and test heating briefly.", FriendlyText: "Check radiators are straight and secure, and the heating comes on."},
		{ID: "itm_in_16", CategorySlug: "inside", DisplayOrder: 16, OriginalText: "Inspect the loft hatch, insulation visible from the hatch and stair balustrades.", FriendlyText: "Check the loft hatch, visible insulation and the stair rails."},
	},
}
